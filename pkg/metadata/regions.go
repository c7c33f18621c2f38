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
	"slices"
	"strings"
)

// Inferencer runs the inference routines over an immutable Rules value.
type Inferencer struct {
	rules *Rules
}

// NewInferencer creates an Inferencer. A nil rules value selects the
// defaults.
func NewInferencer(rules *Rules) *Inferencer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Inferencer{rules: rules}
}

var defaultInferencer = NewInferencer(nil)

// Default returns the Inferencer backed by DefaultRules.
func Default() *Inferencer {
	return defaultInferencer
}

// ExtractRegions returns the ordered, duplicate free set of regions named in
// text. Whole-word region tokens are mapped to their canonical code in text
// order, then standalone US, EU and JP markers are checked independently.
// A whole word is a run of Unicode letters, digits or underscores.
// When nothing is found the result is [All, US]; it is never empty.
func (inf *Inferencer) ExtractRegions(text string) []Region {
	regions := make([]Region, 0, 2)
	add := func(r Region) {
		if !slices.Contains(regions, r) {
			regions = append(regions, r)
		}
	}

	words := inf.rules.word.FindAllString(text, -1)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	for _, w := range words {
		if _, ok := inf.rules.regionTokens[w]; !ok {
			continue
		}
		if r, ok := inf.rules.Synonym(w); ok {
			add(r)
		} else {
			add(Region(strings.ToUpper(w)))
		}
	}

	for _, m := range inf.rules.standalone {
		if slices.ContainsFunc(words, func(w string) bool {
			return slices.Contains(m.words, w)
		}) {
			add(m.label)
		}
	}

	if len(regions) == 0 {
		// TODO: an undetected region currently implies US availability; split
		// "unknown" from "includes US" once the catalog consumers agree on it.
		return []Region{RegionAll, RegionUS}
	}
	return regions
}

// ExtractRegions uses the default Inferencer.
func ExtractRegions(text string) []Region {
	return defaultInferencer.ExtractRegions(text)
}

// RegionStrings converts regions to plain strings, keeping order.
func RegionStrings(regions []Region) []string {
	out := make([]string, len(regions))
	for i, r := range regions {
		out[i] = string(r)
	}
	return out
}

// HasUSOrAll reports whether a region list includes US or the All fallback.
func HasUSOrAll(regions []Region) bool {
	return slices.Contains(regions, RegionUS) || slices.Contains(regions, RegionAll)
}
