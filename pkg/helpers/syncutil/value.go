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

// Package syncutil holds the lock types used across the module. Plain
// builds use the sync package; -tags=deadlock checks every lock with
// go-deadlock and reports stalls through the application log.
package syncutil

// Value guards a single value with an RWMutex. The zero value holds the
// zero value of T.
type Value[T any] struct {
	v  T
	mu RWMutex
}

func (g *Value[T]) Load() T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.v
}

func (g *Value[T]) Store(v T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.v = v
}

// Swap stores v and returns the previous value.
func (g *Value[T]) Swap(v T) T {
	g.mu.Lock()
	defer g.mu.Unlock()
	old := g.v
	g.v = v
	return old
}
