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
	"html"
	"strings"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/htmlstream"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

type anchorPhase uint8

const (
	phaseOutside anchorPhase = iota
	phaseInSection
	phaseInAnchor
)

// anchorScan is the state of one pass over a page. Once a download section
// has been seen the scan stays inside it for the rest of the page.
type anchorScan struct {
	rules *Rules
	seen  map[string]struct{}
	href  string
	text  strings.Builder
	found []anchorLink
	phase anchorPhase
}

type anchorLink struct {
	text string
	href string
}

func (a *anchorScan) handle(ev *htmlstream.Event) {
	switch ev.Kind {
	case htmlstream.KindStartTag:
		a.start(ev)
	case htmlstream.KindEndTag:
		if ev.Name == "a" && a.phase == phaseInAnchor {
			a.closeAnchor()
		}
	case htmlstream.KindText:
		if a.phase == phaseInAnchor {
			a.text.WriteString(ev.Text)
		}
	}
}

func (a *anchorScan) start(ev *htmlstream.Event) {
	switch ev.Name {
	case "div", "table":
		class, _ := ev.Attr("class")
		id, _ := ev.Attr("id")
		if a.rules.IsSectionMarker(class) || a.rules.IsSectionMarker(id) {
			if a.phase == phaseOutside {
				a.phase = phaseInSection
			}
		}
	case "a":
		if a.phase == phaseOutside {
			return
		}
		if a.phase == phaseInAnchor {
			// an unclosed anchor is abandoned
			a.text.Reset()
		}
		a.phase = phaseInAnchor
		a.href = ""
		if href, ok := ev.Attr("href"); ok && a.rules.IsDownloadHref(href) {
			a.href = href
		}
	}
}

func (a *anchorScan) closeAnchor() {
	defer func() {
		a.phase = phaseInSection
		a.href = ""
		a.text.Reset()
	}()

	if a.href == "" {
		return
	}
	text := strings.TrimSpace(html.UnescapeString(a.text.String()))
	if text == "" {
		return
	}
	if _, dup := a.seen[a.href]; dup {
		return
	}
	a.seen[a.href] = struct{}{}
	a.found = append(a.found, anchorLink{text: text, href: a.href})
}

// SectionAnchors collects file host links inside elements whose class or id
// marks them as a download section, in any of the supported languages.
type SectionAnchors struct {
	rules *Rules
	inf   *metadata.Inferencer
}

// NewSectionAnchors creates the section anchor strategy. Nil arguments
// select the defaults.
func NewSectionAnchors(rules *Rules, inf *metadata.Inferencer) *SectionAnchors {
	if rules == nil {
		rules = DefaultRules()
	}
	if inf == nil {
		inf = metadata.Default()
	}
	return &SectionAnchors{rules: rules, inf: inf}
}

func (*SectionAnchors) Name() string { return "section-anchors" }

func (s *SectionAnchors) Extract(page []byte) []Candidate {
	scan := anchorScan{rules: s.rules, seen: make(map[string]struct{})}
	for ev := range htmlstream.EventsFromBytes(page) {
		scan.handle(&ev)
	}

	out := make([]Candidate, 0, len(scan.found))
	for _, l := range scan.found {
		out = append(out, Candidate{
			Filename: l.text,
			RawURL:   l.href,
			LinkText: DefaultLinkText,
			Info:     s.inf.ParseFileInfo(l.text),
		})
	}
	return out
}
