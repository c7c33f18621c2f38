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

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/catalog"
)

const menuTitle = "ZAPAROO CATALOG"

// Menu is the interactive text menu.
type Menu struct {
	svc Catalog
	in  *bufio.Scanner
	out io.Writer
}

func NewMenu(svc Catalog, in io.Reader, out io.Writer) *Menu {
	return &Menu{svc: svc, in: bufio.NewScanner(in), out: out}
}

// Run shows the menu until the user exits or input ends. The games list is
// downloaded first if there is none; a failed download is reported and the
// menu still opens so it can be retried with the update option.
func (m *Menu) Run(ctx context.Context) error {
	refreshed, err := m.svc.EnsureCatalog(ctx)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("error downloading games list")
		m.println(fmt.Sprintf("Error downloading games list: %v", err))
	case refreshed:
		m.println("Games list has been saved")
	}

	first := true
	for {
		if ctx.Err() != nil {
			return ctx.Err() //nolint:wrapcheck // plain cancellation
		}
		if first {
			m.println(menuTitle)
			first = false
		} else {
			m.println("\n" + menuTitle)
		}
		m.println("1. Update games list")
		m.println("2. Search game by name")
		m.println("0. Exit")

		choice, ok := m.prompt("Enter your choice: ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			m.update(ctx)
		case "2":
			m.search(ctx)
		case "0":
			return nil
		default:
			m.println("Invalid option")
		}
	}
}

func (m *Menu) println(s string) {
	_, _ = fmt.Fprintln(m.out, s)
}

// prompt reads one trimmed line. It returns false at end of input.
func (m *Menu) prompt(label string) (string, bool) {
	_, _ = fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) update(ctx context.Context) {
	m.println("Updating games list...")
	if _, err := m.svc.RefreshCatalog(ctx); err != nil {
		log.Error().Err(err).Msg("error updating games list")
		m.println(fmt.Sprintf("Error updating games list: %v", err))
		return
	}
	m.println("Games list updated successfully!")
}

func (m *Menu) search(ctx context.Context) {
	term, ok := m.prompt("Enter game name (or part of name) to search: ")
	if !ok {
		return
	}
	res, err := m.svc.Search(ctx, term)
	if err != nil {
		log.Error().Err(err).Msg("error searching games")
		m.println(fmt.Sprintf("Error searching games: %v", err))
		return
	}
	printResults(m.out, term, res)

	switch len(res.Entries) {
	case 0:
		return
	case 1:
		m.println("Fetching download links, please wait...")
		m.showLinks(ctx, &res.Entries[0])
		return
	}

	raw, ok := m.prompt("\nEnter number to see game details and download links (0 to return to menu): ")
	if !ok {
		return
	}
	selection, err := strconv.Atoi(raw)
	if err != nil {
		m.println("Invalid input. Please enter a number.")
		return
	}
	switch {
	case selection == 0:
	case selection < 1 || selection > len(res.Entries):
		m.println("Invalid selection")
	default:
		m.println("\nFetching download links, please wait...")
		m.showLinks(ctx, &res.Entries[selection-1])
	}
}

func (m *Menu) showLinks(ctx context.Context, entry *catalog.Entry) {
	groups, err := m.svc.Links(ctx, entry)
	if err != nil {
		log.Error().Err(err).Str("game", entry.Title).Msg("error fetching download links")
		m.println(fmt.Sprintf("Error fetching download links: %v", err))
		return
	}
	printLinks(m.out, groups)
}
