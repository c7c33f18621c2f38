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

package fixtures

import (
	"github.com/ZaparooProject/zaparoo-catalog/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/downloads"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

// Common catalog fixtures for use in tests

// NewRacerGame creates a sample entry with a product code and two regions
func NewRacerGame() catalog.Entry {
	return catalog.Entry{
		Title:       "Racer Deluxe",
		DetailLink:  "https://catalog.test/racer",
		ProductCode: "0100ABCD12340000",
		Regions:     []metadata.Region{metadata.RegionUS, metadata.RegionEU},
	}
}

// NewUnknownRegionGame creates a sample entry where no region was detected
func NewUnknownRegionGame() catalog.Entry {
	return catalog.Entry{
		Title:       "Racer 2",
		DetailLink:  "https://catalog.test/racer2",
		ProductCode: catalog.UnknownCode,
		Regions:     []metadata.Region{metadata.RegionAll, metadata.RegionUS},
	}
}

// NewJapanGame creates a sample entry outside the US subset
func NewJapanGame() catalog.Entry {
	return catalog.Entry{
		Title:       "Ōkami HD",
		DetailLink:  "https://catalog.test/okami",
		ProductCode: catalog.UnknownCode,
		Regions:     []metadata.Region{metadata.RegionJP},
	}
}

// SampleGames returns all sample entries in catalog order
func SampleGames() []catalog.Entry {
	return []catalog.Entry{NewRacerGame(), NewUnknownRegionGame(), NewJapanGame()}
}

// NewRacerLinks creates the grouped download links of NewRacerGame
func NewRacerLinks() []downloads.LinkGroup {
	return []downloads.LinkGroup{{
		GroupKey: downloads.GroupKey{
			Filename: "Racer (USA).nsp",
			Type:     "Base",
			Format:   metadata.FormatNSP,
			Version:  metadata.Unknown,
			Region:   "US",
		},
		Links: []downloads.Link{
			{URL: "https://example.com/file.nsp", Text: "Mirror"},
			{URL: "https://mega.nz/file/abc", Text: "Mega"},
		},
	}}
}
