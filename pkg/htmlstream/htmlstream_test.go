// Zaparoo Catalog
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Catalog.
//
// Zaparoo Catalog is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Catalog is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Catalog.  If not, see <http://www.gnu.org/licenses/>.

package htmlstream

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents_Order(t *testing.T) {
	t.Parallel()

	events := slices.Collect(EventsFromString(`<tr class="post-row"><td><a href="/x">Zelda &amp; Link</a></td></tr>`))
	require.Len(t, events, 7)

	assert.Equal(t, KindStartTag, events[0].Kind)
	assert.Equal(t, "tr", events[0].Name)
	assert.True(t, events[0].HasClass("post-row"))

	assert.True(t, events[1].IsStart("td"))
	assert.True(t, events[2].IsStart("a"))
	href, ok := events[2].Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "/x", href)

	assert.Equal(t, KindText, events[3].Kind)
	assert.Equal(t, "Zelda &amp; Link", events[3].Text, "text must stay raw")

	assert.True(t, events[4].IsEnd("a"))
	assert.True(t, events[5].IsEnd("td"))
	assert.True(t, events[6].IsEnd("tr"))
}

func TestEvents_SelfClosingAndComments(t *testing.T) {
	t.Parallel()

	events := slices.Collect(EventsFromString(`<!DOCTYPE html><!-- c --><br/><img src="a.png" />`))
	require.Len(t, events, 4)
	assert.True(t, events[0].IsStart("br"))
	assert.True(t, events[1].IsEnd("br"))
	assert.True(t, events[2].IsStart("img"))
	assert.True(t, events[3].IsEnd("img"))
}

func TestEvents_AttributeOrder(t *testing.T) {
	t.Parallel()

	events := slices.Collect(EventsFromString(`<div ID="dl" class="a b" data-x='1'>`))
	require.Len(t, events, 1)
	assert.Equal(t, []Attr{
		{Key: "id", Val: "dl"},
		{Key: "class", Val: "a b"},
		{Key: "data-x", Val: "1"},
	}, events[0].Attrs)
	assert.True(t, events[0].HasClass("b"))
	assert.False(t, events[0].HasClass("a b"))

	_, ok := events[0].Attr("href")
	assert.False(t, ok)
}

func TestEvents_EarlyStop(t *testing.T) {
	t.Parallel()

	count := 0
	for range EventsFromString(`<a></a><b></b><c></c>`) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestEvents_Malformed(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"<",
		"<tr><td><a href=",
		"</td></tr></table>",
		"<<<>>>",
		"\x00\xff\xfe",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_ = slices.Collect(EventsFromString(in))
		}, "input %q", in)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "start", KindStartTag.String())
	assert.Equal(t, "end", KindEndTag.String())
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
