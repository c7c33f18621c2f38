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

package config

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName       = "zaparoo-catalog"
	CatalogFile   = "games.json"
	USCatalogFile = "games_us.json"
	LogFile       = "catalog.log"
	CfgFile       = "config.toml"
	AuthFile      = "auth.toml"
	// IndexMemory keeps the search index in memory for the session.
	IndexMemory = ":memory:"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultTimeout            = 30 * time.Second
	DefaultMaxAge             = 7 * 24 * time.Hour
	DefaultRequestsPerSecond  = 2.0
	DefaultBurst              = 4
	DefaultFuzzyMinSimilarity = 0.8
	DefaultFuzzyLimit         = 5
)
