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

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRegions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []Region
	}{
		{
			name: "bracketed usa",
			text: "Super Game [USA]",
			want: []Region{RegionUS},
		},
		{
			name: "no tokens falls back",
			text: "Some Title",
			want: []Region{RegionAll, RegionUS},
		},
		{
			name: "empty text falls back",
			text: "",
			want: []Region{RegionAll, RegionUS},
		},
		{
			name: "full names map to codes in text order",
			text: "Racer Japan Europe",
			want: []Region{RegionJP, RegionEU},
		},
		{
			name: "duplicates keep first position",
			text: "Racer (EU) Europe [JP] eu",
			want: []Region{RegionEU, RegionJP},
		},
		{
			name: "case insensitive",
			text: "racer korea TAIWAN",
			want: []Region{RegionKOR, RegionTW},
		},
		{
			name: "america is us",
			text: "Racer America",
			want: []Region{RegionUS},
		},
		{
			name: "region span text appended",
			text: "Racer  UK FR DE",
			want: []Region{RegionUK, RegionFR, RegionDE},
		},
		{
			name: "tokens inside words do not match",
			text: "Jupiter Usagi Euphoria",
			want: []Region{RegionAll, RegionUS},
		},
		{
			name: "token glued to an accented letter is not a word",
			text: "Pokémon Édition ÉUS",
			want: []Region{RegionAll, RegionUS},
		},
		{
			name: "token glued to kana is not a word",
			text: "ドラゴンUS", //nolint:gosmopolitan // testing Unicode
			want: []Region{RegionAll, RegionUS},
		},
		{
			name: "accented neighbours separated by space",
			text: "Café Édition (EU) Japan",
			want: []Region{RegionEU, RegionJP},
		},
		{
			name: "parenthesised us",
			text: "Racer (US)",
			want: []Region{RegionUS},
		},
		{
			name: "spelled out european countries",
			text: "Racer England China Germany Italy Spain France",
			want: []Region{RegionUK, RegionCH, RegionDE, RegionIT, RegionES, RegionFR},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractRegions(tt.text))
		})
	}
}

func TestExtractRegions_WithCustomRules(t *testing.T) {
	t.Parallel()

	inf := NewInferencer(DefaultRules())
	assert.Equal(t, []Region{RegionAS}, inf.ExtractRegions("Racer Asia"))
	assert.Same(t, DefaultRules(), DefaultRules(), "default rules are built once")
}

func TestSynonym(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()
	r, ok := rules.Synonym("spanish")
	assert.True(t, ok)
	assert.Equal(t, RegionES, r)

	_, ok = rules.Synonym("atlantis")
	assert.False(t, ok)
}

func TestRegionStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"All", "US"}, RegionStrings([]Region{RegionAll, RegionUS}))
	assert.Empty(t, RegionStrings(nil))
}

func TestHasUSOrAll(t *testing.T) {
	t.Parallel()

	assert.True(t, HasUSOrAll([]Region{RegionJP, RegionUS}))
	assert.True(t, HasUSOrAll([]Region{RegionAll, RegionUS}))
	assert.True(t, HasUSOrAll([]Region{RegionAll}))
	assert.False(t, HasUSOrAll([]Region{RegionJP, RegionEU}))
	assert.False(t, HasUSOrAll(nil))
}
