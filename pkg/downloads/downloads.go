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

// Package downloads finds the download offers of a title detail page.
//
// Pages are tried against an ordered chain of strategies. The structured
// download tables are preferred; when a page has none, anchors inside
// download sections are used, and as a last resort any href that looks like
// a game file or a redirector.
package downloads

import (
	"github.com/rs/zerolog/log"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

// DefaultLinkText is the link label used when a page does not provide one.
const DefaultLinkText = "Download"

// Candidate is a single download offer found on a page.
type Candidate struct {
	Filename string
	RawURL   string
	LinkText string
	Info     metadata.FileInfo
}

// Strategy is one way of reading download offers from a page. An empty
// result means the strategy does not apply and the next one should run.
type Strategy interface {
	Name() string
	Extract(page []byte) []Candidate
}

// Extractor runs strategies in order and returns the first non-empty
// result.
type Extractor struct {
	strategies []Strategy
}

// NewExtractor creates an Extractor over the given strategies, tried in the
// order given.
func NewExtractor(strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// NewDefaultExtractor builds the standard chain: structured tables, then
// section anchors, then raw patterns. Nil arguments select the defaults.
func NewDefaultExtractor(rules *Rules, inf *metadata.Inferencer) *Extractor {
	if rules == nil {
		rules = DefaultRules()
	}
	if inf == nil {
		inf = metadata.Default()
	}
	return NewExtractor(
		NewStructuredTable(inf),
		NewSectionAnchors(rules, inf),
		NewRawPattern(inf),
	)
}

// Strategies returns the names of the configured strategies in order.
func (x *Extractor) Strategies() []string {
	names := make([]string, len(x.strategies))
	for i, s := range x.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract returns the candidates of the first strategy that finds any. The
// result is never nil.
func (x *Extractor) Extract(page []byte) []Candidate {
	for _, s := range x.strategies {
		found := s.Extract(page)
		if len(found) > 0 {
			log.Debug().
				Str("strategy", s.Name()).
				Int("candidates", len(found)).
				Msg("download candidates found")
			return found
		}
		log.Debug().Str("strategy", s.Name()).Msg("strategy found no candidates")
	}
	return []Candidate{}
}
