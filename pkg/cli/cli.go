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

// Package cli is the command line and interactive menu front end.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/config"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/database/catalogdb"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/downloads"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/service"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/storage"
)

// Catalog is the part of the service the front end drives.
type Catalog interface {
	EnsureCatalog(ctx context.Context) (bool, error)
	RefreshCatalog(ctx context.Context) ([]catalog.Entry, error)
	Search(ctx context.Context, term string) (service.SearchResult, error)
	Links(ctx context.Context, entry *catalog.Entry) ([]downloads.LinkGroup, error)
	Entries() ([]catalog.Entry, error)
}

var _ Catalog = (*service.Service)(nil)

var ErrEmptySearch = errors.New("search flag requires a value")

type Flags struct {
	fs        *flag.FlagSet
	Version   *bool
	Refresh   *bool
	Search    *string
	ExportCSV *string
	Debug     *bool
}

// SetupFlags registers the command line flags on fs, or on the default
// command line set when fs is nil.
func SetupFlags(fs *flag.FlagSet) *Flags {
	if fs == nil {
		fs = flag.CommandLine
	}
	return &Flags{
		fs: fs,
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Refresh: fs.Bool(
			"refresh",
			false,
			"download the games list and exit",
		),
		Search: fs.String(
			"search",
			"",
			"print games matching a name and exit",
		),
		ExportCSV: fs.String(
			"export-csv",
			"",
			"write the games list as CSV to a file (- for stdout) and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging to the console",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Parse parses args, or the process arguments when args is nil.
func (f *Flags) Parse(args []string) error {
	if args == nil {
		args = os.Args[1:]
	}
	if err := f.fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return nil
}

// Interactive reports whether no one-shot action was requested.
func (f *Flags) Interactive() bool {
	return !f.isFlagPassed("refresh") && !f.isFlagPassed("search") && !f.isFlagPassed("export-csv")
}

// Setup creates the app directories, starts logging and loads the config.
func Setup(dirs helpers.Dirs, defaultConfig config.Values, writers []io.Writer) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(dirs); err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	if err := helpers.InitLogging(dirs.LogDir, writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(dirs.ConfigDir, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	cfg.SetDebugLogging(cfg.DebugLogging())

	log.Info().
		Str("version", config.AppVersion).
		Str("config", cfg.Path()).
		Msg("starting")
	return cfg, nil
}

// PrintVersion writes the version line.
func PrintVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s v%s\n", config.AppName, config.AppVersion)
}

// Post runs the one-shot action selected by the flags. It does nothing when
// the flags select the interactive menu.
func (f *Flags) Post(ctx context.Context, svc Catalog, out io.Writer) error {
	switch {
	case f.isFlagPassed("refresh"):
		entries, err := svc.RefreshCatalog(ctx)
		if err != nil {
			return fmt.Errorf("error updating games list: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Saved %d games\n", len(entries))
	case f.isFlagPassed("search"):
		if strings.TrimSpace(*f.Search) == "" {
			return ErrEmptySearch
		}
		if _, err := svc.EnsureCatalog(ctx); err != nil {
			return fmt.Errorf("error loading games list: %w", err)
		}
		res, err := svc.Search(ctx, *f.Search)
		if err != nil {
			return fmt.Errorf("error searching: %w", err)
		}
		printResults(out, *f.Search, res)
	case f.isFlagPassed("export-csv"):
		if _, err := svc.EnsureCatalog(ctx); err != nil {
			return fmt.Errorf("error loading games list: %w", err)
		}
		entries, err := svc.Entries()
		if err != nil {
			return fmt.Errorf("error loading games list: %w", err)
		}
		return exportCSV(*f.ExportCSV, entries, out)
	}
	return nil
}

func exportCSV(path string, entries []catalog.Entry, stdout io.Writer) error {
	if path == "" || path == "-" {
		//nolint:wrapcheck // same message either way
		return storage.ExportCSV(stdout, entries)
	}
	//nolint:gosec // path is chosen by the user running the command
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close csv file")
		}
	}()
	if err := storage.ExportCSV(f, entries); err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("games", len(entries)).Msg("exported catalog")
	return nil
}

func formatEntry(i int, e *catalog.Entry) string {
	regions := strings.Join(metadata.RegionStrings(e.Regions), ", ")
	return fmt.Sprintf("%d. %s (%s) (%s)", i, e.Title, regions, e.ProductCode)
}

func printResults(out io.Writer, term string, res service.SearchResult) {
	if len(res.Entries) == 0 {
		_, _ = fmt.Fprintf(out, "No games found matching '%s'\n", term)
		printSuggestions(out, res.Suggestions)
		return
	}
	_, _ = fmt.Fprintf(out, "\nFound %d games matching '%s':\n", len(res.Entries), term)
	for i := range res.Entries {
		_, _ = fmt.Fprintln(out, formatEntry(i+1, &res.Entries[i]))
	}
}

func printSuggestions(out io.Writer, suggestions []catalogdb.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, "Did you mean:")
	for i := range suggestions {
		_, _ = fmt.Fprintln(out, "  "+formatEntry(i+1, &suggestions[i].Entry))
	}
}

func printLinks(out io.Writer, groups []downloads.LinkGroup) {
	if len(groups) == 0 {
		_, _ = fmt.Fprintln(out, "No download links found.")
		return
	}
	_, _ = fmt.Fprintln(out, "\nDownload Links:")
	for i := range groups {
		g := &groups[i]
		_, _ = fmt.Fprintf(out, "%d. %s - %s\n", i+1, g.Type, g.Filename)
		for _, l := range g.Links {
			_, _ = fmt.Fprintf(out, " %s %s\n", l.Text, l.URL)
		}
		_, _ = fmt.Fprintln(out)
	}
}
