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

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), CfgFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	return cfgPath
}

func TestNewConfig_WritesDefaults(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, CfgFile))
	require.NoError(t, err, "default config should be written on first run")

	assert.Equal(t, DefaultUserAgent, cfg.UserAgent())
	assert.Equal(t, DefaultTimeout, cfg.HTTPTimeout())
	assert.Equal(t, DefaultMaxAge, cfg.MaxAge())
	assert.Empty(t, cfg.BaseURL())
	assert.Empty(t, cfg.ListingURLs())
	assert.ErrorIs(t, cfg.CheckSite(), ErrNotConfigured)
}

func TestLoad_PreservesDefaultsForMissingFields(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, fmt.Sprintf("config_schema = %d\n", SchemaVersion))
	cfg := &Instance{
		cfgPath:  cfgPath,
		vals:     BaseDefaults,
		defaults: BaseDefaults,
	}

	require.NoError(t, cfg.Load())
	assert.Equal(t, DefaultUserAgent, cfg.vals.HTTP.UserAgent)
	assert.Equal(t, DefaultBurst, cfg.vals.HTTP.Burst)
	assert.InDelta(t, DefaultFuzzyMinSimilarity, cfg.FuzzyMinSimilarity(), 0.0001)
	assert.Equal(t, DefaultFuzzyLimit, cfg.FuzzyLimit())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, fmt.Sprintf(`config_schema = %d
debug_logging = true

[catalog]
base_url = "https://catalog.test"
detail_base_url = "https://detail.test"
max_age = "12h"
listing_urls = ["https://catalog.test/list-a", "https://catalog.test/list-b"]

[http]
user_agent = "catalog-test"
timeout = "5s"
requests_per_second = 0.5
burst = 1

[search]
fuzzy_min_similarity = 0.9
fuzzy_limit = 3
`, SchemaVersion))

	cfg := &Instance{cfgPath: cfgPath, vals: BaseDefaults, defaults: BaseDefaults}
	require.NoError(t, cfg.Load())

	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, "https://catalog.test", cfg.BaseURL())
	assert.Equal(t, "https://detail.test", cfg.DetailBaseURL())
	assert.Equal(t, 12*time.Hour, cfg.MaxAge())
	assert.Equal(t, []string{"https://catalog.test/list-a", "https://catalog.test/list-b"}, cfg.ListingURLs())
	assert.Equal(t, "catalog-test", cfg.UserAgent())
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout())

	rps, burst := cfg.RateLimit()
	assert.InDelta(t, 0.5, rps, 0.0001)
	assert.Equal(t, 1, burst)

	assert.InDelta(t, 0.9, cfg.FuzzyMinSimilarity(), 0.0001)
	assert.Equal(t, 3, cfg.FuzzyLimit())
	assert.NoError(t, cfg.CheckSite())
}

func TestLoad_SchemaMismatch(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "config_schema = 99\n")
	cfg := &Instance{cfgPath: cfgPath, vals: BaseDefaults, defaults: BaseDefaults}
	assert.ErrorIs(t, cfg.Load(), ErrSchemaMismatch)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "bad base url", body: "[catalog]\nbase_url = \"not a url\"\n"},
		{name: "bad listing url", body: "[catalog]\nlisting_urls = [\"::\"]\n"},
		{name: "bad max age", body: "[catalog]\nmax_age = \"soon\"\n"},
		{name: "negative timeout", body: "[http]\ntimeout = \"-1s\"\n"},
		{name: "zero burst", body: "[http]\nburst = 0\n"},
		{name: "similarity above one", body: "[search]\nfuzzy_min_similarity = 1.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfgPath := writeConfig(t, fmt.Sprintf("config_schema = %d\n%s", SchemaVersion, tt.body))
			cfg := &Instance{cfgPath: cfgPath, vals: BaseDefaults, defaults: BaseDefaults}
			assert.ErrorIs(t, cfg.Load(), ErrInvalidConfig)
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, "config_schema = [")
	cfg := &Instance{cfgPath: cfgPath, vals: BaseDefaults, defaults: BaseDefaults}
	assert.Error(t, cfg.Load())

	missing := &Instance{cfgPath: filepath.Join(t.TempDir(), "missing.toml")}
	assert.Error(t, missing.Load())

	assert.Error(t, (&Instance{}).Load())
	assert.Error(t, (&Instance{}).Save())
}

func TestSave_ReloadCycle(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)

	cfg.SetSite("https://catalog.test", []string{"https://catalog.test/list"})
	require.NoError(t, cfg.Save())
	require.NoError(t, cfg.Load())

	assert.Equal(t, "https://catalog.test", cfg.BaseURL())
	assert.Equal(t, "https://catalog.test", cfg.DetailBaseURL(), "detail base falls back to base url")
	assert.Equal(t, []string{"https://catalog.test/list"}, cfg.ListingURLs())
	assert.NoError(t, cfg.CheckSite())
}

func TestListingURLs_ReturnsCopy(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	urls := []string{"https://catalog.test/a"}
	cfg.SetSite("https://catalog.test", urls)
	urls[0] = "changed"

	got := cfg.ListingURLs()
	got[0] = "also changed"
	assert.Equal(t, []string{"https://catalog.test/a"}, cfg.ListingURLs())
}

func TestDurations_FallBack(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	assert.Equal(t, DefaultMaxAge, cfg.MaxAge())
	assert.Equal(t, DefaultTimeout, cfg.HTTPTimeout())
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent())

	_, burst := cfg.RateLimit()
	assert.Equal(t, 1, burst)

	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("0s", time.Minute))
	assert.Equal(t, 2*time.Hour, parseDuration("2h", time.Minute))
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	done := make(chan struct{})
	for range 10 {
		go func() {
			for range 100 {
				_ = cfg.ListingURLs()
				_ = cfg.DetailBaseURL()
				cfg.SetSite("https://catalog.test", []string{"https://catalog.test/a"})
			}
			done <- struct{}{}
		}()
	}

	for range 10 {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent access deadlocked")
		}
	}
}
