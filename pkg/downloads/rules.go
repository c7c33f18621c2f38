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
	"net/url"
	"path"
	"slices"
	"strings"
	"sync"
)

// Rules holds the lists used to recognise download sections and links.
// Values are read-only once built.
type Rules struct {
	sectionIdentifiers []string
	hosts              []string
	archiveExts        []string
}

// NewRules creates a rule set. Identifiers and hosts are matched as
// case-insensitive substrings; extensions include the leading dot.
func NewRules(sectionIdentifiers, hosts, archiveExts []string) *Rules {
	lower := func(in []string) []string {
		out := make([]string, len(in))
		for i, s := range in {
			out[i] = strings.ToLower(s)
		}
		return out
	}
	return &Rules{
		sectionIdentifiers: lower(sectionIdentifiers),
		hosts:              lower(hosts),
		archiveExts:        lower(archiveExts),
	}
}

func newDefaultRules() *Rules {
	return NewRules(
		[]string{
			"download", "téléchargement", "descargar", "herunterladen",
			"scarica", "baixar", "скачать", "下载", "ダウンロード",
		},
		[]string{
			"mega.nz", "mediafire", "drive.google", "dropbox", "1fichier",
			"uploadhaven", "zippyshare", "uptobox", "google.com", "pixeldrain",
			"up-4ever", "file-upload", "sendcm", "send.cm", "clicknupload",
			"frdl.is", "buzzheavier", "ouo.io", "redirect-to",
		},
		[]string{".nsp", ".xci", ".rar", ".zip"},
	)
}

// DefaultRules returns the shared default rule set.
var DefaultRules = sync.OnceValue(newDefaultRules)

// IsSectionMarker reports whether a class or id value names a download
// section.
func (r *Rules) IsSectionMarker(value string) bool {
	if value == "" {
		return false
	}
	value = strings.ToLower(value)
	return slices.ContainsFunc(r.sectionIdentifiers, func(id string) bool {
		return strings.Contains(value, id)
	})
}

// IsDownloadHref reports whether href points at a known file host or
// redirector, or directly at a game file.
func (r *Rules) IsDownloadHref(href string) bool {
	lower := strings.ToLower(href)
	if slices.ContainsFunc(r.hosts, func(h string) bool {
		return strings.Contains(lower, h)
	}) {
		return true
	}
	return r.hasArchiveExt(lower)
}

func (r *Rules) hasArchiveExt(href string) bool {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	return ext != "" && slices.Contains(r.archiveExts, ext)
}
