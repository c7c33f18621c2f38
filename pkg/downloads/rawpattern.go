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
	"path"
	"regexp"
	"strings"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

// DefaultFilename names raw links whose path has no basename.
const DefaultFilename = "Download Link"

var (
	reFileHref     = regexp.MustCompile(`(?i)href=['"]?([^'" >]+\.(?:nsp|xci|rar|zip)[^'" >]*)`)
	reRedirectHref = regexp.MustCompile(`(?i)href=['"]?([^'" >]*redirect-to[^'" >]*)`)
)

// RawPattern scans the page source for hrefs to game files, then for hrefs
// to the site redirector. Both lists are kept in page order, files first.
type RawPattern struct {
	inf *metadata.Inferencer
}

// NewRawPattern creates the raw pattern strategy.
func NewRawPattern(inf *metadata.Inferencer) *RawPattern {
	if inf == nil {
		inf = metadata.Default()
	}
	return &RawPattern{inf: inf}
}

func (*RawPattern) Name() string { return "raw-pattern" }

func (r *RawPattern) Extract(page []byte) []Candidate {
	files := reFileHref.FindAllSubmatch(page, -1)
	redirects := reRedirectHref.FindAllSubmatch(page, -1)

	out := make([]Candidate, 0, len(files)+len(redirects))
	for _, m := range append(files, redirects...) {
		link := string(m[1])
		name := hrefBasename(link)
		out = append(out, Candidate{
			Filename: name,
			RawURL:   link,
			LinkText: DefaultLinkText,
			Info:     r.inf.ParseFileInfo(name),
		})
	}
	return out
}

func hrefBasename(link string) string {
	p, _, _ := strings.Cut(link, "?")
	if p == "" || strings.HasSuffix(p, "/") {
		return DefaultFilename
	}
	return path.Base(p)
}
