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

// Package catalog reconstructs catalog entries from the rows of a listing
// page, driven by the tag event stream of htmlstream.
package catalog

import (
	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

// UnknownCode is the product code of entries without a detected title ID.
const UnknownCode = "Unknown"

// Entry is a single title of the catalog. The JSON field names match the
// catalog files written by earlier versions of the tool.
type Entry struct {
	Title       string            `json:"name"`
	DetailLink  string            `json:"link"`
	ProductCode string            `json:"code"`
	Regions     []metadata.Region `json:"regions"`
}

// FilterUS returns the entries whose regions include US or the All
// fallback, preserving order.
func FilterUS(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for i := range entries {
		if metadata.HasUSOrAll(entries[i].Regions) {
			out = append(out, entries[i])
		}
	}
	return out
}
