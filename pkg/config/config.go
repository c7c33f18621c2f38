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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/helpers/syncutil"
)

const (
	SchemaVersion = 1
	CfgEnv        = "ZAPAROO_CATALOG_CFG"
)

var (
	ErrSchemaMismatch = errors.New("schema version mismatch")
	ErrNotConfigured  = errors.New("catalog site is not configured")
)

type Values struct {
	Catalog      Catalog `toml:"catalog"`
	HTTP         HTTP    `toml:"http"`
	Search       Search  `toml:"search"`
	ConfigSchema int     `toml:"config_schema"`
	DebugLogging bool    `toml:"debug_logging"`
}

type Catalog struct {
	// BaseURL is prepended to relative links found on listing pages.
	BaseURL string `toml:"base_url" validate:"omitempty,url"`
	// DetailBaseURL overrides BaseURL for links on detail pages.
	DetailBaseURL string `toml:"detail_base_url,omitempty" validate:"omitempty,url"`
	// MaxAge is how long a saved catalog is used before it is refreshed.
	MaxAge      string   `toml:"max_age" validate:"duration"`
	ListingURLs []string `toml:"listing_urls,multiline" validate:"dive,url"`
}

type HTTP struct {
	UserAgent         string  `toml:"user_agent"`
	Timeout           string  `toml:"timeout" validate:"duration"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gte=0"`
	Burst             int     `toml:"burst" validate:"gte=1"`
}

type Search struct {
	FuzzyMinSimilarity float64 `toml:"fuzzy_min_similarity" validate:"gte=0,lte=1"`
	FuzzyLimit         int     `toml:"fuzzy_limit" validate:"gte=0"`
}

type Auth struct {
	Creds map[string]CredentialEntry `toml:"creds,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Catalog: Catalog{
		MaxAge: DefaultMaxAge.String(),
	},
	HTTP: HTTP{
		UserAgent:         DefaultUserAgent,
		Timeout:           DefaultTimeout.String(),
		RequestsPerSecond: DefaultRequestsPerSecond,
		Burst:             DefaultBurst,
	},
	Search: Search{
		FuzzyMinSimilarity: DefaultFuzzyMinSimilarity,
		FuzzyLimit:         DefaultFuzzyLimit,
	},
}

type Instance struct {
	cfgPath  string
	authPath string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

var authCfg atomic.Value

func GetAuthCfg() Auth {
	val := authCfg.Load()
	if val == nil {
		return Auth{}
	}
	auth, ok := val.(Auth)
	if !ok {
		return Auth{}
	}
	return auth
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     cloneValues(defaults),
		defaults: cloneValues(defaults),
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	cfg.authPath = filepath.Join(filepath.Dir(cfgPath), AuthFile)

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// fields missing from the file keep their defaults
	newVals := cloneValues(c.defaults)
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	if err := validate(&newVals); err != nil {
		return err
	}

	c.vals = newVals

	if c.authPath == "" {
		return nil
	}
	if _, err := os.Stat(c.authPath); err == nil {
		log.Info().Msg("loading auth file")
		authData, err := os.ReadFile(c.authPath)
		if err != nil {
			return fmt.Errorf("failed to read auth file: %w", err)
		}

		creds := LoadAuthFromData(authData)
		log.Info().Msgf("loaded %d auth entries", len(creds))
		authCfg.Store(Auth{Creds: creds})
	}

	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the location of the loaded config file.
func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

// BaseURL returns the configured catalog site.
func (c *Instance) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Catalog.BaseURL
}

// DetailBaseURL returns the base for relative detail page links, falling
// back to BaseURL.
func (c *Instance) DetailBaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Catalog.DetailBaseURL != "" {
		return c.vals.Catalog.DetailBaseURL
	}
	return c.vals.Catalog.BaseURL
}

func (c *Instance) ListingURLs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Catalog.ListingURLs)
}

func (c *Instance) SetSite(baseURL string, listingURLs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Catalog.BaseURL = baseURL
	c.vals.Catalog.ListingURLs = slices.Clone(listingURLs)
}

func (c *Instance) MaxAge() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Catalog.MaxAge, DefaultMaxAge)
}

func (c *Instance) UserAgent() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.HTTP.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.vals.HTTP.UserAgent
}

func (c *Instance) HTTPTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.HTTP.Timeout, DefaultTimeout)
}

// RateLimit returns the request rate and burst for site fetches. A rate of
// zero disables limiting.
func (c *Instance) RateLimit() (perSecond float64, burst int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	burst = c.vals.HTTP.Burst
	if burst < 1 {
		burst = 1
	}
	return c.vals.HTTP.RequestsPerSecond, burst
}

func (c *Instance) FuzzyMinSimilarity() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Search.FuzzyMinSimilarity
}

func (c *Instance) FuzzyLimit() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Search.FuzzyLimit
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// CheckSite returns ErrNotConfigured unless a base URL and at least one
// listing page are set.
func (c *Instance) CheckSite() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	site := siteRequirements{
		BaseURL:     c.vals.Catalog.BaseURL,
		ListingURLs: c.vals.Catalog.ListingURLs,
	}
	if err := validator().Struct(site); err != nil {
		return fmt.Errorf("%w: set catalog.base_url and catalog.listing_urls in %s: %w",
			ErrNotConfigured, c.cfgPath, err)
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Warn().Msgf("invalid duration %q, using %s", s, fallback)
		return fallback
	}
	return d
}

//nolint:gocritic // config struct copied for immutability
func cloneValues(v Values) Values {
	v.Catalog.ListingURLs = slices.Clone(v.Catalog.ListingURLs)
	return v
}

// SetAuthCfgForTesting sets the global auth config for testing purposes
func SetAuthCfgForTesting(auth Auth) {
	authCfg.Store(auth)
}

// ClearAuthCfgForTesting clears the global auth config for testing purposes
func ClearAuthCfgForTesting() {
	authCfg.Store(Auth{})
}
