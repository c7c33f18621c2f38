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
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/database"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type gameRow struct {
	NormName string
	Entry    catalog.Entry
}

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run catalog index migrations: %w", err)
	}
	return nil
}

func sqlInsertGames(ctx context.Context, db *sql.DB, entries []catalog.Entry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn().Err(rbErr).Msg("failed to rollback insert transaction")
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		insert into Games(
			Name, NormName, Link, Code, Regions
		) values (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare game insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	for i := range entries {
		e := &entries[i]
		_, err = stmt.ExecContext(
			ctx,
			e.Title,
			NormalizeName(e.Title),
			e.DetailLink,
			e.ProductCode,
			encodeRegions(e.Regions),
		)
		if err != nil {
			return fmt.Errorf("failed to insert game %q: %w", e.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit game inserts: %w", err)
	}
	return nil
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `delete from Games;`)
	if err != nil {
		return fmt.Errorf("failed to truncate index: %w", err)
	}
	return nil
}

func sqlCountGames(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `select count(*) from Games;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

func sqlSearchGames(ctx context.Context, db *sql.DB, normPattern string) ([]catalog.Entry, error) {
	results := make([]catalog.Entry, 0)

	q, err := db.PrepareContext(ctx, `
		select Name, Link, Code, Regions, NormName
		from Games
		where NormName like ? escape '\'
		order by Name, DBID;
	`)
	if err != nil {
		return results, fmt.Errorf("failed to prepare game search statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, "%"+likeEscaper.Replace(normPattern)+"%")
	if err != nil {
		return results, fmt.Errorf("failed to search games: %w", err)
	}
	found, err := scanGames(rows)
	if err != nil {
		return results, err
	}
	for i := range found {
		results = append(results, found[i].Entry)
	}
	return results, nil
}

func sqlAllGames(ctx context.Context, db *sql.DB) ([]gameRow, error) {
	rows, err := db.QueryContext(ctx, `
		select Name, Link, Code, Regions, NormName
		from Games
		order by Name, DBID;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return scanGames(rows)
}

func scanGames(rows *sql.Rows) ([]gameRow, error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	var list []gameRow
	for rows.Next() {
		var row gameRow
		var regions string
		err := rows.Scan(
			&row.Entry.Title,
			&row.Entry.DetailLink,
			&row.Entry.ProductCode,
			&regions,
			&row.NormName,
		)
		if err != nil {
			return list, fmt.Errorf("failed to scan game row: %w", err)
		}
		row.Entry.Regions = decodeRegions(regions)
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("failed to iterate game rows: %w", err)
	}
	return list, nil
}

func encodeRegions(regions []metadata.Region) string {
	return strings.Join(metadata.RegionStrings(regions), ",")
}

func decodeRegions(s string) []metadata.Region {
	if s == "" {
		return []metadata.Region{}
	}
	parts := strings.Split(s, ",")
	regions := make([]metadata.Region, 0, len(parts))
	for _, p := range parts {
		regions = append(regions, metadata.Region(p))
	}
	return regions
}
