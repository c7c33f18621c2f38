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

// Package service ties fetching, parsing, storage and search together.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/config"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/database/catalogdb"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/downloads"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/htmlstream"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/metadata"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/redirect"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/shared/httpclient"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/storage"
)

// maxParallelFetches bounds concurrent listing page requests. The client
// rate limiter still applies to each one.
const maxParallelFetches = 4

var ErrNoDetailLink = errors.New("entry has no detail link")

// SearchResult holds the exact matches for a query, or fuzzy suggestions
// when there were none.
type SearchResult struct {
	Entries     []catalog.Entry
	Suggestions []catalogdb.Suggestion
}

type Service struct {
	cfg        *config.Instance
	client     *httpclient.Client
	store      *storage.Store
	inferencer *metadata.Inferencer
	extractor  *downloads.Extractor
	resolver   *redirect.Resolver
	index      syncutil.Value[*catalogdb.CatalogDB]
	indexMu    syncutil.Mutex
}

func New(cfg *config.Instance, client *httpclient.Client, store *storage.Store) *Service {
	inf := metadata.Default()
	return &Service{
		cfg:        cfg,
		client:     client,
		store:      store,
		inferencer: inf,
		extractor:  downloads.NewDefaultExtractor(downloads.DefaultRules(), inf),
		resolver:   redirect.NewResolver(),
	}
}

// RefreshCatalog fetches every configured listing page, saves the combined
// catalog and drops the current search index. Pages are fetched in parallel
// and their entries kept in configured order.
func (s *Service) RefreshCatalog(ctx context.Context) ([]catalog.Entry, error) {
	if err := s.cfg.CheckSite(); err != nil {
		return nil, fmt.Errorf("cannot refresh catalog: %w", err)
	}

	urls := s.cfg.ListingURLs()
	log.Info().Str("site", s.cfg.BaseURL()).Int("pages", len(urls)).Msg("refreshing catalog")
	opts := catalog.ListingOptions{
		Inferencer: s.inferencer,
		BaseURL:    s.cfg.DetailBaseURL(),
	}
	pages := make([][]catalog.Entry, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, u := range urls {
		g.Go(func() error {
			body, err := s.client.FetchHTML(gctx, u)
			if err != nil {
				return fmt.Errorf("failed to fetch listing %s: %w", u, err)
			}
			pages[i] = catalog.ParseListing(htmlstream.EventsFromBytes(body), opts)
			log.Debug().Str("url", u).Int("games", len(pages[i])).Msg("parsed listing page")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped inside the group
	}

	entries := slices.Concat(pages...)
	if entries == nil {
		entries = []catalog.Entry{}
	}
	if err := s.store.Save(entries); err != nil {
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}
	s.dropIndex()
	return entries, nil
}

// EnsureCatalog refreshes the catalog when it is missing or older than the
// configured max age. It reports whether a refresh happened.
func (s *Service) EnsureCatalog(ctx context.Context) (bool, error) {
	stale, err := s.store.IsStale(s.cfg.MaxAge())
	if err != nil {
		return false, fmt.Errorf("failed to check catalog age: %w", err)
	}
	if s.store.Exists() && !stale {
		return false, nil
	}
	log.Info().Bool("stale", stale).Msg("catalog missing or stale, refreshing")
	if _, err := s.RefreshCatalog(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// OpenIndex returns the search index, building it from the saved catalog on
// first use.
func (s *Service) OpenIndex(ctx context.Context) (*catalogdb.CatalogDB, error) {
	if idx := s.index.Load(); idx != nil {
		return idx, nil
	}

	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	if idx := s.index.Load(); idx != nil {
		return idx, nil
	}

	entries, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	idx, err := catalogdb.Open(ctx, config.IndexMemory)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog index: %w", err)
	}
	if err := idx.Insert(ctx, entries); err != nil {
		if closeErr := idx.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close catalog index")
		}
		return nil, fmt.Errorf("failed to index catalog: %w", err)
	}
	log.Debug().Int("games", len(entries)).Msg("built catalog index")
	s.index.Store(idx)
	return idx, nil
}

// Search looks up titles containing term. When nothing matches and fuzzy
// suggestions are enabled, the closest titles are returned instead.
func (s *Service) Search(ctx context.Context, term string) (SearchResult, error) {
	idx, err := s.OpenIndex(ctx)
	if err != nil {
		return SearchResult{}, err
	}
	entries, err := idx.Search(ctx, term)
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to search catalog: %w", err)
	}
	result := SearchResult{Entries: entries}
	if len(entries) > 0 || s.cfg.FuzzyLimit() <= 0 {
		return result, nil
	}
	result.Suggestions, err = idx.Suggest(ctx, term, s.cfg.FuzzyLimit(), float32(s.cfg.FuzzyMinSimilarity()))
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to suggest titles: %w", err)
	}
	return result, nil
}

// Links fetches the detail page of entry and returns its download links
// grouped by file, with redirector links resolved.
func (s *Service) Links(ctx context.Context, entry *catalog.Entry) ([]downloads.LinkGroup, error) {
	if entry.DetailLink == "" {
		return nil, ErrNoDetailLink
	}
	body, err := s.client.FetchHTML(ctx, entry.DetailLink)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch detail page: %w", err)
	}
	candidates := s.extractor.Extract(body)
	groups := downloads.Group(candidates, s.resolver.Resolve)
	log.Debug().
		Str("game", entry.Title).
		Int("candidates", len(candidates)).
		Int("groups", len(groups)).
		Msg("extracted download links")
	return groups, nil
}

// Entries returns the saved catalog.
func (s *Service) Entries() ([]catalog.Entry, error) {
	entries, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return entries, nil
}

// Close releases the search index.
func (s *Service) Close() error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	old := s.index.Swap(nil)
	if old == nil {
		return nil
	}
	if err := old.Close(); err != nil {
		return fmt.Errorf("failed to close catalog index: %w", err)
	}
	return nil
}

func (s *Service) dropIndex() {
	if err := s.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to drop catalog index")
	}
}
