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

// GroupKey identifies one downloadable file. Mirrors of the same file share
// a key.
type GroupKey struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Format   string `json:"format"`
	Version  string `json:"version"`
	Region   string `json:"region"`
}

// Link is one mirror of a file.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// LinkGroup is a file and all of its mirrors, in page order.
type LinkGroup struct {
	Links []Link `json:"links"`
	GroupKey
}

// KeyOf returns the group key of a candidate.
func KeyOf(c *Candidate) GroupKey {
	return GroupKey{
		Filename: c.Filename,
		Type:     c.Info.Type,
		Format:   c.Info.Format,
		Version:  c.Info.Version,
		Region:   c.Info.Region,
	}
}

// Group collects candidates into link groups, keeping the order in which
// keys and links were first seen. Old update candidates are dropped. The
// resolve function maps each raw URL to the URL shown to the user; nil
// keeps raw URLs.
func Group(cands []Candidate, resolve func(string) string) []LinkGroup {
	if resolve == nil {
		resolve = func(s string) string { return s }
	}

	groups := make([]LinkGroup, 0, len(cands))
	index := make(map[GroupKey]int, len(cands))
	for i := range cands {
		c := &cands[i]
		if c.Info.IsOldUpdate() {
			continue
		}
		key := KeyOf(c)
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, LinkGroup{GroupKey: key})
		}
		groups[pos].Links = append(groups[pos].Links, Link{URL: resolve(c.RawURL), Text: c.LinkText})
	}
	return groups
}
