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
	"strconv"
	"testing"

	"pgregory.net/rapid"
)

// filenameGen generates strings built from the characters that show up in
// release filenames, biased towards the markers the inference code looks for.
func filenameGen() *rapid.Generator[string] {
	chars := []rune(
		"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" +
			" -_.+()[]{}",
	)
	fragments := []string{
		".nsp", ".xci", ".rar", ".zip", "[v", "(v", "+v", "update", "dlc",
		"USA", "[EU]", "(JP)", "Japan", "World", "[65536]", "]", ")",
	}
	return rapid.Custom(func(t *rapid.T) string {
		parts := rapid.SliceOfN(rapid.OneOf(
			rapid.StringOfN(rapid.SampledFrom(chars), 0, 8, -1),
			rapid.SampledFrom(fragments),
		), 0, 8).Draw(t, "parts")
		out := ""
		for _, p := range parts {
			out += p
		}
		return out
	})
}

var validFormats = []string{
	FormatNSP, FormatXCI, FormatNSPArchived, FormatXCIArchived, FormatArchive, Unknown,
}

var validTypes = []string{TypeBaseGame, TypeUpdate, TypeDLC}

// TestPropertyParseFileInfoTotal verifies every field always holds a value
// from its documented domain.
func TestPropertyParseFileInfoTotal(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		name := filenameGen().Draw(t, "filename")
		info := ParseFileInfo(name)

		if !slices.Contains(validFormats, info.Format) {
			t.Fatalf("unexpected format %q for %q", info.Format, name)
		}
		if !slices.Contains(validTypes, info.Type) {
			t.Fatalf("unexpected type %q for %q", info.Type, name)
		}
		if info.Version == "" {
			t.Fatalf("empty version for %q", name)
		}
		if info.Region == "" {
			t.Fatalf("empty region for %q", name)
		}
	})
}

// TestPropertyParseFileInfoDeterministic verifies identical input yields
// identical output.
func TestPropertyParseFileInfoDeterministic(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		name := filenameGen().Draw(t, "filename")
		if ParseFileInfo(name) != ParseFileInfo(name) {
			t.Fatalf("ParseFileInfo is not deterministic for %q", name)
		}
	})
}

// TestPropertyExtractRegionsNeverEmpty verifies the fallback always applies.
func TestPropertyExtractRegionsNeverEmpty(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		regions := ExtractRegions(text)
		if len(regions) == 0 {
			t.Fatalf("empty region set for %q", text)
		}
		seen := make(map[Region]bool, len(regions))
		for _, r := range regions {
			if seen[r] {
				t.Fatalf("duplicate region %q for %q", r, text)
			}
			seen[r] = true
		}
		if seen[RegionAll] && !slices.Equal(regions, []Region{RegionAll, RegionUS}) {
			t.Fatalf("All must only appear as [All, US], got %v", regions)
		}
	})
}

// TestPropertyPackedVersion verifies packed integers decompose into their
// component bytes.
func TestPropertyPackedVersion(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		major := rapid.Uint32Range(1, 0xFFFF).Draw(t, "major")
		minor := rapid.Uint32Range(0, 0xFF).Draw(t, "minor")
		patch := rapid.Uint32Range(0, 0xFF).Draw(t, "patch")
		packed := major<<16 | minor<<8 | patch

		got := InferVersion("Game [" + strconv.FormatUint(uint64(packed), 10) + "]")
		want := strconv.FormatUint(uint64(major), 10) + "." +
			strconv.FormatUint(uint64(minor), 10) + "." +
			strconv.FormatUint(uint64(patch), 10)
		if got != want {
			t.Fatalf("packed %d: got %q, want %q", packed, got, want)
		}
	})
}
