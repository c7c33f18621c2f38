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

// Package storage persists the scraped catalog as JSON files.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/config"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

var ErrCatalogMissing = errors.New("catalog file not found")

// Store reads and writes games.json and games_us.json in one directory.
type Store struct {
	fs    afero.Fs
	clock clockwork.Clock
	dir   string
}

// NewStore returns a store rooted at dir. A nil fs uses the OS filesystem
// and a nil clock uses the real clock.
func NewStore(fsys afero.Fs, dir string, clock clockwork.Clock) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{fs: fsys, clock: clock, dir: dir}
}

func (s *Store) CatalogPath() string {
	return filepath.Join(s.dir, config.CatalogFile)
}

func (s *Store) USCatalogPath() string {
	return filepath.Join(s.dir, config.USCatalogFile)
}

// Save writes the full catalog and its US subset. Each file is written to a
// temporary name first and renamed into place.
func (s *Store) Save(entries []catalog.Entry) error {
	if entries == nil {
		entries = []catalog.Entry{}
	}
	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := s.writeJSON(s.CatalogPath(), entries); err != nil {
		return err
	}
	us := catalog.FilterUS(entries)
	if err := s.writeJSON(s.USCatalogPath(), us); err != nil {
		return err
	}
	log.Info().
		Int("games", len(entries)).
		Int("us_games", len(us)).
		Str("dir", s.dir).
		Msg("saved catalog")
	return nil
}

// Load reads the full catalog. It returns ErrCatalogMissing when no catalog
// has been saved yet.
func (s *Store) Load() ([]catalog.Entry, error) {
	return s.readJSON(s.CatalogPath())
}

// LoadUS reads the US subset.
func (s *Store) LoadUS() ([]catalog.Entry, error) {
	return s.readJSON(s.USCatalogPath())
}

// Exists reports whether both catalog files are present.
func (s *Store) Exists() bool {
	for _, p := range []string{s.CatalogPath(), s.USCatalogPath()} {
		ok, err := afero.Exists(s.fs, p)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// IsStale reports whether the catalog is missing or older than maxAge. A
// maxAge of zero or less never expires a saved catalog.
func (s *Store) IsStale(maxAge time.Duration) (bool, error) {
	info, err := s.fs.Stat(s.CatalogPath())
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to stat catalog: %w", err)
	}
	if maxAge <= 0 {
		return false, nil
	}
	return s.clock.Since(info.ModTime()) > maxAge, nil
}

// Remove deletes both catalog files. Missing files are ignored.
func (s *Store) Remove() error {
	for _, p := range []string{s.CatalogPath(), s.USCatalogPath()} {
		if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) writeJSON(path string, entries []catalog.Entry) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (s *Store) readJSON(path string) ([]catalog.Entry, error) {
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCatalogMissing, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	entries := make([]catalog.Entry, 0)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return entries, nil
}

// encodeEntries writes compact JSON without escaping '<', '>' or '&'.
func encodeEntries(entries []catalog.Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

type csvRow struct {
	Name    string `csv:"name"`
	Code    string `csv:"code"`
	Regions string `csv:"regions"`
	Link    string `csv:"link"`
}

// ExportCSV writes entries as CSV with a header row. Regions are joined with
// ", " the way they are shown in search results.
func ExportCSV(w io.Writer, entries []catalog.Entry) error {
	rows := make([]csvRow, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		rows = append(rows, csvRow{
			Name:    e.Title,
			Code:    e.ProductCode,
			Regions: strings.Join(metadata.RegionStrings(e.Regions), ", "),
			Link:    e.DetailLink,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
