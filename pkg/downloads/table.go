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
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

var (
	reDownloadBox = regexp.MustCompile(`(?is)<div\s+class=['"]download-box['"]>(.*?)</div>`)
	reBTITable    = regexp.MustCompile(`(?is)<table\s+class=['"]bti-table['"].*?<tbody>(.*?)</tbody>`)
	reSectionHead = regexp.MustCompile(`(?is)<h4>(.*?)</h4>`)
	reTableRow    = regexp.MustCompile(`(?is)<tr>(.*?)</tr>`)
	reTableCell   = regexp.MustCompile(`(?is)<td>(.*?)</td>`)
	reCellAnchor  = regexp.MustCompile(`(?i)<a\s+href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	reMarkup      = regexp.MustCompile(`<[^>]*>`)
)

// categoryLabels are the first-column labels that replace the inferred
// release type.
var categoryLabels = map[string]struct{}{
	"base":       {},
	"update":     {},
	"dlc":        {},
	"old update": {},
}

// StructuredTable reads the site's download boxes: tables with one row per
// file holding the category, the filename and the mirror links.
type StructuredTable struct {
	fileInfo func(filename string) metadata.FileInfo
}

// NewStructuredTable creates the structured table strategy.
func NewStructuredTable(inf *metadata.Inferencer) *StructuredTable {
	if inf == nil {
		inf = metadata.Default()
	}
	return &StructuredTable{fileInfo: inf.ParseFileInfo}
}

func (*StructuredTable) Name() string { return "structured-table" }

func (s *StructuredTable) Extract(page []byte) []Candidate {
	var out []Candidate
	for _, box := range reDownloadBox.FindAllSubmatch(page, -1) {
		content := box[1]
		for _, h := range reSectionHead.FindAllSubmatch(content, -1) {
			log.Debug().Str("section", strings.TrimSpace(string(h[1]))).Msg("download box section")
		}
		for _, table := range reBTITable.FindAllSubmatch(content, -1) {
			for _, row := range reTableRow.FindAllSubmatch(table[1], -1) {
				if strings.Contains(string(row[1]), "<th>") {
					continue
				}
				found, err := s.parseRow(string(row[1]))
				if err != nil {
					log.Warn().Err(err).Msg("skipping download table row")
					continue
				}
				out = append(out, found...)
			}
		}
	}
	return out
}

// parseRow turns one table row into candidates. A panic while reading the
// row is returned as an error so the remaining rows are still processed.
func (s *StructuredTable) parseRow(row string) (found []Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = fmt.Errorf("parse row: %v", r)
		}
	}()

	cells := reTableCell.FindAllStringSubmatch(row, -1)
	if len(cells) < 3 {
		return nil, nil
	}

	category := strings.TrimSpace(cells[0][1])
	filename := strings.TrimSpace(reMarkup.ReplaceAllString(strings.TrimSpace(cells[1][1]), ""))
	filename = html.UnescapeString(filename)

	info := s.fileInfo(filename)
	if _, ok := categoryLabels[strings.ToLower(category)]; ok {
		info.Type = category
	}

	anchors := reCellAnchor.FindAllStringSubmatch(cells[2][1], -1)
	for _, a := range anchors {
		found = append(found, Candidate{
			Filename: filename,
			RawURL:   html.UnescapeString(a[1]),
			LinkText: strings.TrimSpace(html.UnescapeString(a[2])),
			Info:     info,
		})
	}
	return found, nil
}
