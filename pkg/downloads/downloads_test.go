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

package downloads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

const structuredPage = `<html><body>
<div class="download-box"><h4>Base Game</h4>
<table class="bti-table" width="100%"><thead><tr><th>Type</th></tr></thead><tbody>
<tr><th>Type</th><th>File</th><th>Links</th></tr>
<tr><td>Base</td><td><b>Racer [0100ABCD12340000][v0] (USA).nsp</b></td><td><a href="https://mega.nz/file/abc">Mega</a> <a href="https://1fichier.com/?xyz" target="_blank">1Fichier</a></td></tr>
<tr><td>Update</td><td>Racer [v196608].nsp</td><td><a href="https://site.test/redirect-to/?url=abc">Mirror</a></td></tr>
<tr><td>Only two</td><td>cells</td></tr>
</tbody></table></div>
</body></html>`

const sectionPage = `<html><body>
<p><a href="https://mega.nz/outside">Outside</a></p>
<div id="zona-descargar">
<a href="https://mega.nz/file/1">Racer (USA).nsp</a>
<a href="https://mega.nz/file/1">Racer duplicate</a>
<a href="https://unknown.test/x">Not a host</a>
<a href="https://mediafire.com/f/2">   </a>
</div>
<p><a href="https://cdn.test/Racer%20Update.xci?dl=1">Racer Update.xci</a></p>
</body></html>`

const rawPage = `<html><body>
<a href='https://site.test/redirect-to/?url=aHR0cHM6Ly9leGFtcGxlLmNvbS9maWxlLm5zcA'>go</a>
<a href="https://cdn.test/files/Racer[v65536].nsp?token=1">file</a>
<a href=https://cdn.test/pack.zip/>folder</a>
</body></html>`

func TestStructuredTable(t *testing.T) {
	t.Parallel()

	got := NewStructuredTable(nil).Extract([]byte(structuredPage))
	require.Len(t, got, 3)

	base := metadata.FileInfo{Type: "Base", Format: metadata.FormatNSP, Version: "0", Region: "US"}
	assert.Equal(t, Candidate{
		Filename: "Racer [0100ABCD12340000][v0] (USA).nsp",
		RawURL:   "https://mega.nz/file/abc",
		LinkText: "Mega",
		Info:     base,
	}, got[0])
	assert.Equal(t, "https://1fichier.com/?xyz", got[1].RawURL)
	assert.Equal(t, "1Fichier", got[1].LinkText)
	assert.Equal(t, base, got[1].Info)

	assert.Equal(t, "Racer [v196608].nsp", got[2].Filename)
	assert.Equal(t, metadata.FileInfo{
		Type:    "Update",
		Format:  metadata.FormatNSP,
		Version: "3.0.0",
		Region:  metadata.Unknown,
	}, got[2].Info)
}

func TestStructuredTable_LabelOverride(t *testing.T) {
	t.Parallel()

	page := `<div class='download-box'><table class='bti-table'><tbody>` +
		`<tr><td> Old Update </td><td>Racer [v65536].nsp</td><td><a href="https://mega.nz/o">Mega</a></td></tr>` +
		`<tr><td>Extras</td><td>Racer DLC.nsp</td><td><a href="https://mega.nz/d">Mega</a></td></tr>` +
		`</tbody></table></div>`

	got := NewStructuredTable(nil).Extract([]byte(page))
	require.Len(t, got, 2)
	assert.Equal(t, "Old Update", got[0].Info.Type)
	assert.True(t, got[0].Info.IsOldUpdate())
	assert.Equal(t, metadata.TypeDLC, got[1].Info.Type, "unknown labels keep the inferred type")
}

func TestStructuredTable_BadRowSkipped(t *testing.T) {
	t.Parallel()

	table := NewStructuredTable(nil)
	parse := table.fileInfo
	table.fileInfo = func(filename string) metadata.FileInfo {
		if filename == "Racer [v196608].nsp" {
			panic("unreadable filename")
		}
		return parse(filename)
	}

	got := table.Extract([]byte(structuredPage))
	require.Len(t, got, 2, "only the failing row is skipped")
	assert.Equal(t, "https://mega.nz/file/abc", got[0].RawURL)
	assert.Equal(t, "https://1fichier.com/?xyz", got[1].RawURL)

	row, err := table.parseRow("<td>Update</td><td>Racer [v196608].nsp</td><td><a href=\"https://x.test/\">x</a></td>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable filename")
	assert.Nil(t, row)
}

func TestStructuredTable_NoBoxes(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NewStructuredTable(nil).Extract([]byte(sectionPage)))
	assert.Empty(t, NewStructuredTable(nil).Extract(nil))
}

func TestSectionAnchors(t *testing.T) {
	t.Parallel()

	got := NewSectionAnchors(nil, nil).Extract([]byte(sectionPage))
	require.Len(t, got, 2)

	assert.Equal(t, Candidate{
		Filename: "Racer (USA).nsp",
		RawURL:   "https://mega.nz/file/1",
		LinkText: DefaultLinkText,
		Info: metadata.FileInfo{
			Type:    metadata.TypeBaseGame,
			Format:  metadata.FormatNSP,
			Version: metadata.Unknown,
			Region:  "US",
		},
	}, got[0])

	assert.Equal(t, "Racer Update.xci", got[1].Filename)
	assert.Equal(t, "https://cdn.test/Racer%20Update.xci?dl=1", got[1].RawURL)
	assert.Equal(t, metadata.TypeUpdate, got[1].Info.Type)
	assert.Equal(t, metadata.FormatXCI, got[1].Info.Format)
}

func TestSectionAnchors_MultilingualMarkers(t *testing.T) {
	t.Parallel()

	markers := []string{
		`<table class="Téléchargement">`,
		`<div class="herunterladen-links">`,
		`<div id="скачать">`,
		`<div class="ダウンロード">`,
	}
	for _, m := range markers {
		page := m + `<a href="https://pixeldrain.com/u/1">Racer.nsp</a>`
		got := NewSectionAnchors(nil, nil).Extract([]byte(page))
		assert.Len(t, got, 1, "marker %q", m)
	}
}

func TestSectionAnchors_NoSection(t *testing.T) {
	t.Parallel()

	page := `<div class="content"><a href="https://mega.nz/file/1">Racer.nsp</a></div>`
	assert.Empty(t, NewSectionAnchors(nil, nil).Extract([]byte(page)))
}

func TestSectionAnchors_UnclosedAnchor(t *testing.T) {
	t.Parallel()

	page := `<div class="downloads"><a href="https://mega.nz/a">Lost` +
		`<a href="https://mega.nz/b">Kept.nsp</a></div>`
	got := NewSectionAnchors(nil, nil).Extract([]byte(page))
	require.Len(t, got, 1)
	assert.Equal(t, "Kept.nsp", got[0].Filename)
	assert.Equal(t, "https://mega.nz/b", got[0].RawURL)
}

func TestRawPattern(t *testing.T) {
	t.Parallel()

	got := NewRawPattern(nil).Extract([]byte(rawPage))
	require.Len(t, got, 3)

	assert.Equal(t, "https://cdn.test/files/Racer[v65536].nsp?token=1", got[0].RawURL)
	assert.Equal(t, "Racer[v65536].nsp", got[0].Filename)
	assert.Equal(t, "1.0.0", got[0].Info.Version)
	assert.Equal(t, DefaultLinkText, got[0].LinkText)

	assert.Equal(t, "https://cdn.test/pack.zip/", got[1].RawURL)
	assert.Equal(t, DefaultFilename, got[1].Filename)

	assert.Equal(t, "https://site.test/redirect-to/?url=aHR0cHM6Ly9leGFtcGxlLmNvbS9maWxlLm5zcA", got[2].RawURL)
	assert.Equal(t, DefaultFilename, got[2].Filename, "trailing slash leaves no basename")
}

func TestRawPattern_NoMatches(t *testing.T) {
	t.Parallel()

	got := NewRawPattern(nil).Extract([]byte(`<a href="/about">About</a>`))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHrefBasename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "https://cdn.test/a/Game.nsp", want: "Game.nsp"},
		{in: "https://cdn.test/a/Game.nsp?x=1", want: "Game.nsp"},
		{in: "https://cdn.test/a/", want: DefaultFilename},
		{in: "?only=query", want: DefaultFilename},
		{in: "", want: DefaultFilename},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hrefBasename(tt.in), "href %q", tt.in)
	}
}

type fixedStrategy struct {
	name  string
	found []Candidate
	calls *int
}

func (f fixedStrategy) Name() string { return f.name }

func (f fixedStrategy) Extract([]byte) []Candidate {
	*f.calls++
	return f.found
}

func TestExtractor_Chain(t *testing.T) {
	t.Parallel()

	var first, second, third int
	want := []Candidate{{Filename: "b"}}
	x := NewExtractor(
		fixedStrategy{name: "empty", calls: &first},
		fixedStrategy{name: "hit", found: want, calls: &second},
		fixedStrategy{name: "never", found: []Candidate{{Filename: "c"}}, calls: &third},
	)

	assert.Equal(t, want, x.Extract(nil))
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 0, third, "chain stops at the first non-empty result")
	assert.Equal(t, []string{"empty", "hit", "never"}, x.Strategies())
}

func TestExtractor_Exhausted(t *testing.T) {
	t.Parallel()

	got := NewExtractor().Extract([]byte("<html></html>"))
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = NewDefaultExtractor(nil, nil).Extract([]byte("<p>nothing here</p>"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDefaultExtractor_Tiers(t *testing.T) {
	t.Parallel()

	x := NewDefaultExtractor(nil, nil)
	assert.Equal(t, []string{"structured-table", "section-anchors", "raw-pattern"}, x.Strategies())

	assert.Len(t, x.Extract([]byte(structuredPage)), 3)
	assert.Len(t, x.Extract([]byte(sectionPage)), 2)
	assert.Len(t, x.Extract([]byte(rawPage)), 3)
}

func TestRules(t *testing.T) {
	t.Parallel()

	r := DefaultRules()
	assert.Same(t, r, DefaultRules())

	assert.True(t, r.IsSectionMarker("Download-Links"))
	assert.True(t, r.IsSectionMarker("zona-下载"))
	assert.False(t, r.IsSectionMarker(""))
	assert.False(t, r.IsSectionMarker("sidebar"))

	assert.True(t, r.IsDownloadHref("https://MEGA.nz/file/x"))
	assert.True(t, r.IsDownloadHref("https://site.test/redirect-to/?url=x"))
	assert.True(t, r.IsDownloadHref("https://cdn.test/game.XCI"))
	assert.False(t, r.IsDownloadHref("https://cdn.test/readme.txt"))
	assert.False(t, r.IsDownloadHref("https://cdn.test/page?f=game.nsp"))

	custom := NewRules([]string{"Files"}, []string{"Host.Test"}, []string{".7z"})
	assert.True(t, custom.IsSectionMarker("my-files"))
	assert.True(t, custom.IsDownloadHref("https://host.test/a"))
	assert.True(t, custom.IsDownloadHref("https://cdn.test/a.7z"))
	assert.False(t, custom.IsDownloadHref("https://mega.nz/file/x"))
}
