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

// Package redirect unwraps the site's redirector links into the file host
// URL they point at.
package redirect

import (
	"encoding/base64"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultPathMarker must appear in the path of a redirector link.
	DefaultPathMarker = "redirect"
	// DefaultTargetParam holds the base64 encoded target.
	DefaultTargetParam = "url"
	// DefaultShortener is the second redirector sometimes wrapped inside.
	DefaultShortener = "ouo.io"
	// DefaultShortenerParam holds the shortener's own target.
	DefaultShortenerParam = "s"
)

// Resolver decodes redirector links. The zero value is not usable; use
// NewResolver.
type Resolver struct {
	pathMarker     string
	targetParam    string
	shortener      string
	shortenerParam string
}

// NewResolver returns a Resolver for the site's redirector format.
func NewResolver() *Resolver {
	return &Resolver{
		pathMarker:     DefaultPathMarker,
		targetParam:    DefaultTargetParam,
		shortener:      DefaultShortener,
		shortenerParam: DefaultShortenerParam,
	}
}

// Resolve returns the URL wrapped by a redirector link. Anything that is not
// a redirector link, or that fails to decode, is returned unchanged.
func (r *Resolver) Resolve(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !strings.Contains(u.Path, r.pathMarker) {
		return raw
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil && len(values) == 0 {
		return raw
	}
	encoded, ok := values[r.targetParam]
	if !ok || len(encoded) == 0 {
		return raw
	}

	target, ok := decodeTarget(encoded[0])
	if !ok {
		log.Debug().Str("url", raw).Msg("undecodable redirect target")
		return raw
	}

	if inner, ok := r.unwrapShortener(target); ok {
		return inner
	}
	return target
}

func (r *Resolver) unwrapShortener(target string) (string, bool) {
	u, err := url.Parse(target)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host != r.shortener && !strings.HasSuffix(host, "."+r.shortener) {
		return "", false
	}
	inner := u.Query().Get(r.shortenerParam)
	if inner == "" {
		return "", false
	}
	return inner, true
}

// decodeTarget decodes a standard base64 payload that may have lost its
// padding, and its plus signs to query decoding.
func decodeTarget(encoded string) (string, bool) {
	encoded = strings.ReplaceAll(encoded, " ", "+")
	if rem := len(encoded) % 4; rem != 0 {
		encoded += strings.Repeat("=", 4-rem)
	}
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(b) == 0 || !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}
