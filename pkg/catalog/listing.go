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

package catalog

import (
	"html"
	"iter"
	"regexp"
	"strings"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/htmlstream"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

const (
	// PostRowClass marks the table rows that hold a catalog title.
	PostRowClass = "post-row"
	// BackToTop is the navigation row label that is never a title.
	BackToTop = "(Back to Top)"
	// regionSpanStyle is the inline style of the span holding region notes.
	regionSpanStyle = "color: red"
)

var (
	reTagResidue  = regexp.MustCompile(`<[^>]*>`)
	reProductCode = regexp.MustCompile(`[0-9A-F]{16}`)
	titlePrefixes = []string{"- ", "– "}
)

// rowPhase is the position of the extractor inside the listing markup.
type rowPhase uint8

const (
	phaseIdle rowPhase = iota
	phaseInRow
	phaseInCell
	phaseInLink
	phaseInRegionSpan
)

// rowState is all the scratch data of the row being parsed. It is replaced
// wholesale whenever a new row starts.
type rowState struct {
	title      string
	link       string
	code       string
	regionText strings.Builder
	phase      rowPhase
}

// ListingOptions configures a listing Extractor.
type ListingOptions struct {
	// Inferencer computes the regions of each entry. Nil selects the default.
	Inferencer *metadata.Inferencer
	// BaseURL is prepended to relative detail links.
	BaseURL string
}

// Extractor consumes the tag events of a listing page and collects catalog
// entries. It is not safe for concurrent use; create one per page.
type Extractor struct {
	inf     *metadata.Inferencer
	baseURL string
	entries []Entry
	row     rowState
}

// NewExtractor creates a listing Extractor.
func NewExtractor(opts ListingOptions) *Extractor {
	inf := opts.Inferencer
	if inf == nil {
		inf = metadata.Default()
	}
	return &Extractor{
		inf:     inf,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// ParseListing runs a fresh Extractor over events and returns the entries.
func ParseListing(events iter.Seq[htmlstream.Event], opts ListingOptions) []Entry {
	x := NewExtractor(opts)
	for ev := range events {
		x.Handle(&ev)
	}
	return x.Entries()
}

// Entries returns the entries completed so far. A row that was never closed
// is not included.
func (x *Extractor) Entries() []Entry {
	if x.entries == nil {
		return []Entry{}
	}
	return x.entries
}

// Handle advances the state machine by one event.
func (x *Extractor) Handle(ev *htmlstream.Event) {
	switch ev.Kind {
	case htmlstream.KindStartTag:
		x.handleStart(ev)
	case htmlstream.KindEndTag:
		x.handleEnd(ev)
	case htmlstream.KindText:
		x.handleText(ev.Text)
	}
}

func (x *Extractor) handleStart(ev *htmlstream.Event) {
	if ev.Name == "tr" && ev.HasClass(PostRowClass) {
		x.row = rowState{phase: phaseInRow}
		return
	}

	switch x.row.phase {
	case phaseIdle:
		return
	case phaseInRow:
		if ev.Name == "td" {
			x.row.phase = phaseInCell
		}
	case phaseInCell, phaseInLink, phaseInRegionSpan:
		switch ev.Name {
		case "td":
			x.row.phase = phaseInCell
		case "a":
			x.row.phase = phaseInLink
			if href, ok := ev.Attr("href"); ok {
				x.row.link = x.absoluteURL(href)
			}
		case "span":
			if x.row.phase != phaseInCell {
				return
			}
			if style, ok := ev.Attr("style"); ok && strings.Contains(style, regionSpanStyle) {
				x.row.phase = phaseInRegionSpan
			}
		}
	}
}

func (x *Extractor) handleEnd(ev *htmlstream.Event) {
	if x.row.phase == phaseIdle {
		return
	}

	switch ev.Name {
	case "tr":
		x.finishRow()
	case "td":
		x.row.phase = phaseInRow
	case "a":
		if x.row.phase == phaseInLink {
			x.row.phase = phaseInCell
		}
	case "span":
		if x.row.phase == phaseInRegionSpan {
			x.row.phase = phaseInCell
		}
	}
}

func (x *Extractor) handleText(raw string) {
	switch x.row.phase {
	case phaseInLink:
		if x.row.title != "" {
			return
		}
		x.row.title = cleanText(raw)
	case phaseInRegionSpan:
		x.row.regionText.WriteString(" ")
		x.row.regionText.WriteString(html.UnescapeString(raw))
	case phaseInCell:
		if x.row.code == "" {
			x.row.code = reProductCode.FindString(raw)
		}
	case phaseIdle, phaseInRow:
	}
}

func (x *Extractor) finishRow() {
	row := &x.row
	defer func() { x.row = rowState{} }()

	if row.title == "" || row.link == "" || row.title == BackToTop {
		return
	}

	title := stripTitlePrefix(row.title)
	if title == BackToTop {
		return
	}

	code := row.code
	if code == "" {
		code = UnknownCode
	}

	x.entries = append(x.entries, Entry{
		Title:       title,
		DetailLink:  row.link,
		ProductCode: code,
		Regions:     x.inf.ExtractRegions(title + " " + row.regionText.String()),
	})
}

func (x *Extractor) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return x.baseURL + href
	}
	return x.baseURL + "/" + href
}

func cleanText(raw string) string {
	return strings.TrimSpace(reTagResidue.ReplaceAllString(html.UnescapeString(raw), ""))
}

func stripTitlePrefix(title string) string {
	for _, p := range titlePrefixes {
		if strings.HasPrefix(title, p) {
			return title[len(p):]
		}
	}
	return title
}
