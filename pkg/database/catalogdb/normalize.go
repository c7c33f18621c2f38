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

package catalogdb

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds a title for matching. It lower-cases, strips combining
// marks and collapses whitespace.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(removeDiacritics(strings.ToLower(s))), " ")
}

func removeDiacritics(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if normalized, _, err := transform.String(t, s); err == nil {
		return normalized
	}
	return s
}

// rankSuggestions scores candidates with Jaro-Winkler similarity against an
// already normalized query. Ties keep title order.
func rankSuggestions(query string, candidates []gameRow, limit int, minSimilarity float32) []Suggestion {
	matches := make([]Suggestion, 0)
	if query == "" {
		return matches
	}

	for i := range candidates {
		similarity := edlib.JaroWinklerSimilarity(query, candidates[i].NormName)
		if similarity < minSimilarity {
			continue
		}
		log.Debug().
			Str("query", query).
			Str("candidate", candidates[i].NormName).
			Float32("similarity", similarity).
			Msg("fuzzy suggestion")
		matches = append(matches, Suggestion{Entry: candidates[i].Entry, Similarity: similarity})
	}

	slices.SortStableFunc(matches, func(a, b Suggestion) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
