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
	"fmt"
	"strconv"
	"strings"
)

// Unknown is the value of any field that could not be inferred.
const Unknown = "Unknown"

// Release types.
const (
	TypeBaseGame  = "Base Game"
	TypeUpdate    = "Update"
	TypeDLC       = "DLC"
	TypeOldUpdate = "Old Update"
)

// Container formats.
const (
	FormatNSP         = "NSP"
	FormatXCI         = "XCI"
	FormatNSPArchived = "NSP (archived)"
	FormatXCIArchived = "XCI (archived)"
	FormatArchive     = "Archive"
)

// FileInfo is the metadata inferred from a release filename.
type FileInfo struct {
	Type    string `json:"type"`
	Format  string `json:"format"`
	Version string `json:"version"`
	Region  string `json:"region"`
}

// IsOldUpdate reports whether the release was labelled as a superseded update.
func (fi FileInfo) IsOldUpdate() bool {
	return strings.EqualFold(fi.Type, TypeOldUpdate)
}

var updateMarkers = []string{"update", "patch", "[v", "(v", "+v", "+update"}

// ParseFileInfo infers type, format, version and region from a filename.
func (inf *Inferencer) ParseFileInfo(filename string) FileInfo {
	return FileInfo{
		Type:    InferType(filename),
		Format:  InferFormat(filename),
		Version: inf.InferVersion(filename),
		Region:  inf.InferFileRegion(filename),
	}
}

// ParseFileInfo uses the default Inferencer.
func ParseFileInfo(filename string) FileInfo {
	return defaultInferencer.ParseFileInfo(filename)
}

// InferFormat returns the container format named by the file extension
// markers in filename. The inner format wins over an archive marker, so
// "Game.nsp.rar" is an NSP and only bare archives are reported as Archive.
func InferFormat(filename string) string {
	lower := strings.ToLower(filename)
	hasNSP := strings.Contains(lower, ".nsp")
	hasXCI := strings.Contains(lower, ".xci")
	archived := strings.Contains(lower, ".rar") || strings.Contains(lower, ".zip")

	switch {
	case hasNSP:
		return FormatNSP
	case hasXCI:
		return FormatXCI
	case archived && hasNSP:
		return FormatNSPArchived
	case archived && hasXCI:
		return FormatXCIArchived
	case archived:
		return FormatArchive
	default:
		return Unknown
	}
}

// InferType classifies a filename as an update, DLC or base game.
func InferType(filename string) string {
	lower := strings.ToLower(filename)
	for _, marker := range updateMarkers {
		if strings.Contains(lower, marker) {
			return TypeUpdate
		}
	}
	if strings.Contains(lower, "dlc") || strings.Contains(lower, "addon") {
		return TypeDLC
	}
	return TypeBaseGame
}

// InferVersion returns the first version string matched by the priority
// ordered patterns, or Unknown. Purely numeric matches of five or more
// digits are treated as a packed title version (major<<16 | minor<<8 | patch).
func (inf *Inferencer) InferVersion(filename string) string {
	for _, re := range inf.rules.versionPatterns {
		m := re.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		return unpackVersion(m[1])
	}
	return Unknown
}

// InferVersion uses the default Inferencer.
func InferVersion(filename string) string {
	return defaultInferencer.InferVersion(filename)
}

func unpackVersion(raw string) string {
	if len(raw) < 5 || !isDigits(raw) {
		return raw
	}
	// values wider than 64 bits keep their raw digits
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return raw
	}
	major := v >> 16
	if major == 0 {
		return raw
	}
	return fmt.Sprintf("%d.%d.%d", major, (v>>8)&0xFF, v&0xFF)
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// InferFileRegion tests every filename region pattern and joins all matching
// labels with commas, or returns Unknown.
func (inf *Inferencer) InferFileRegion(filename string) string {
	var found []string
	for _, p := range inf.rules.fileRegions {
		if p.re.MatchString(filename) {
			found = append(found, p.label)
		}
	}
	if len(found) == 0 {
		return Unknown
	}
	return strings.Join(found, ",")
}
