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

// Package metadata infers region, release type, container format and version
// information from free-text titles and release filenames.
//
// All inference functions are total: any input, including invalid UTF-8,
// yields a documented default instead of an error.
package metadata

import (
	"regexp"
	"sync"
)

// Region is a canonical territorial edition code.
type Region string

const (
	RegionJP  Region = "JP"
	RegionUS  Region = "US"
	RegionEU  Region = "EU"
	RegionUK  Region = "UK"
	RegionAS  Region = "AS"
	RegionCH  Region = "CH"
	RegionKOR Region = "KOR"
	RegionTW  Region = "TW"
	RegionFR  Region = "FR"
	RegionDE  Region = "DE"
	RegionIT  Region = "IT"
	RegionES  Region = "ES"

	// RegionAll is only produced by the fallback when nothing was detected,
	// and always together with RegionUS.
	RegionAll Region = "All"
)

// standaloneMarker yields label when any of words appears as a whole word.
type standaloneMarker struct {
	words []string
	label Region
}

// labelPattern pairs a compiled pattern with the label it yields.
type labelPattern struct {
	re    *regexp.Regexp
	label string
}

// Rules is the immutable set of tables the inference routines run on. A
// Rules value is never modified after construction, so a single instance
// can be shared by any number of goroutines.
type Rules struct {
	synonyms        map[string]Region
	word            *regexp.Regexp
	regionTokens    map[string]struct{}
	standalone      []standaloneMarker
	versionPatterns []*regexp.Regexp
	fileRegions     []labelPattern
}

// Synonym returns the canonical region for a token found in free text.
// Unknown tokens are reported with ok set to false.
func (r *Rules) Synonym(token string) (Region, bool) {
	region, ok := r.synonyms[token]
	return region, ok
}

// versionNumber matches 1-4 (or more) dot separated numeric components.
const versionNumber = `\d+\.?\d*(?:\.\d+)*`

// versionNumberStrict requires at least two digits or a dotted form so a
// bracketed single digit is not mistaken for a version.
const versionNumberStrict = `\d+\.?\d+(?:\.\d+)*`

func newDefaultRules() *Rules {
	return &Rules{
		// Word characters are Unicode letters, digits and underscore, so a
		// token glued to an accented letter is not a whole word.
		word: regexp.MustCompile(`[\p{L}\p{N}_]+`),
		regionTokens: tokenSet(
			"jp", "us", "usa", "eu", "uk", "as", "ch", "kor", "tw", "fr", "de", "it", "es",
			"asia", "japan", "america", "europe", "england", "china", "korea", "taiwan",
			"france", "germany", "italy", "spain",
		),
		synonyms: map[string]Region{
			"japan": RegionJP, "jp": RegionJP,
			"us": RegionUS, "usa": RegionUS, "america": RegionUS,
			"eu": RegionEU, "europe": RegionEU,
			"uk": RegionUK, "england": RegionUK,
			"as": RegionAS, "asia": RegionAS,
			"ch": RegionCH, "china": RegionCH, "chinese": RegionCH,
			"kor": RegionKOR, "korea": RegionKOR, "korean": RegionKOR, "ko": RegionKOR,
			"tw": RegionTW, "taiwan": RegionTW,
			"fr": RegionFR, "france": RegionFR, "french": RegionFR,
			"de": RegionDE, "germany": RegionDE, "german": RegionDE,
			"it": RegionIT, "italy": RegionIT, "italian": RegionIT,
			"es": RegionES, "spain": RegionES, "spanish": RegionES, "spa": RegionES,
		},
		// Checked after the token scan regardless of what it found.
		standalone: []standaloneMarker{
			{words: []string{"us", "usa"}, label: RegionUS},
			{words: []string{"eu"}, label: RegionEU},
			{words: []string{"jp"}, label: RegionJP},
		},
		// Priority order matters: the first pattern that matches wins.
		versionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`\[v(` + versionNumber + `)\]`),
			regexp.MustCompile(`\(v(` + versionNumber + `)\)`),
			regexp.MustCompile(`v(` + versionNumber + `)`),
			regexp.MustCompile(`\[(` + versionNumberStrict + `)\]`),
			regexp.MustCompile(`\((` + versionNumberStrict + `)\)`),
			regexp.MustCompile(`\[v?(\d+)\]`),
			regexp.MustCompile(`\bv(` + versionNumber + `)\b`),
		},
		fileRegions: []labelPattern{
			{re: regexp.MustCompile(`(?i)\[US\]|\(US\)|USA`), label: "US"},
			{re: regexp.MustCompile(`(?i)\[EU\]|\(EU\)|EUR|Europe`), label: "EU"},
			{re: regexp.MustCompile(`(?i)\[JP\]|\(JP\)|JPN|Japan`), label: "JP"},
			{re: regexp.MustCompile(`(?i)\[AS\]|\(AS\)|ASIA`), label: "AS"},
			{re: regexp.MustCompile(`(?i)\[ALL\]|\(ALL\)|WW|World`), label: "ALL"},
			{re: regexp.MustCompile(`(?i)\[KOR\]|\(KOR\)|Korea`), label: "KOR"},
			{re: regexp.MustCompile(`(?i)\[CHN\]|\(CHN\)|China`), label: "CHN"},
		},
	}
}

func tokenSet(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// DefaultRules returns the shared default rule set.
var DefaultRules = sync.OnceValue(newDefaultRules)
