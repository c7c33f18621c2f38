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

// Package catalogdb is the sqlite search index over a loaded catalog.
package catalogdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/config"
)

const sqliteConnParams = "?_journal_mode=WAL&_busy_timeout=5000"

var ErrNullSQL = errors.New("catalog index is not open")

// Suggestion is a fuzzy match for a query that found nothing.
type Suggestion struct {
	Entry      catalog.Entry
	Similarity float32
}

type CatalogDB struct {
	sql *sql.DB
}

// Open opens the index at path and runs its migrations. An empty path or
// config.IndexMemory opens a private in-memory index.
func Open(ctx context.Context, path string) (*CatalogDB, error) {
	dsn := config.IndexMemory
	if path != "" && path != config.IndexMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
		dsn = path + sqliteConnParams
	}

	sqlInstance, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	// every new connection to :memory: is a separate empty database
	sqlInstance.SetMaxOpenConns(1)

	if err := sqlInstance.PingContext(ctx); err != nil {
		_ = sqlInstance.Close()
		return nil, fmt.Errorf("failed to connect to index: %w", err)
	}

	db := &CatalogDB{sql: sqlInstance}
	if err := db.MigrateUp(); err != nil {
		_ = sqlInstance.Close()
		return nil, err
	}

	log.Debug().Str("path", dsn).Msg("opened catalog index")
	return db, nil
}

func (db *CatalogDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

// Insert adds entries to the index in a single transaction.
func (db *CatalogDB) Insert(ctx context.Context, entries []catalog.Entry) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlInsertGames(ctx, db.sql, entries)
}

// Truncate removes every indexed entry.
func (db *CatalogDB) Truncate(ctx context.Context) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(ctx, db.sql)
}

// Count returns the number of indexed entries.
func (db *CatalogDB) Count(ctx context.Context) (int, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlCountGames(ctx, db.sql)
}

// Search returns entries whose normalized title contains the normalized
// pattern, ordered by title. Wildcard characters in pattern match literally.
func (db *CatalogDB) Search(ctx context.Context, pattern string) ([]catalog.Entry, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlSearchGames(ctx, db.sql, NormalizeName(pattern))
}

// Suggest returns up to limit entries whose normalized title is at least
// minSimilarity similar to the query, best first. A limit of zero means no
// limit.
func (db *CatalogDB) Suggest(
	ctx context.Context,
	query string,
	limit int,
	minSimilarity float32,
) ([]Suggestion, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	candidates, err := sqlAllGames(ctx, db.sql)
	if err != nil {
		return nil, err
	}
	return rankSuggestions(NormalizeName(query), candidates, limit, minSimilarity), nil
}

func (db *CatalogDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close index: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
func (db *CatalogDB) SetSQLForTesting(sqlDB *sql.DB) {
	db.sql = sqlDB
}
