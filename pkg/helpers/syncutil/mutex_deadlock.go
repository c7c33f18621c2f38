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

//go:build deadlock

package syncutil

import (
	"bytes"
	"time"

	"github.com/rs/zerolog/log"
	deadlock "github.com/sasha-s/go-deadlock"
)

// DeadlockEnabled reports whether locks are checked by go-deadlock.
const DeadlockEnabled = true

// lockWaitLimit is how long a goroutine may wait for a lock before the
// detector reports it. Locks are never held across network calls.
const lockWaitLimit = 15 * time.Second

func init() {
	deadlock.Opts.DeadlockTimeout = lockWaitLimit
	deadlock.Opts.LogBuf = detectorLog{}
}

// detectorLog sends go-deadlock reports to the application log instead of
// stderr.
type detectorLog struct{}

func (detectorLog) Write(p []byte) (int, error) {
	if msg := bytes.TrimSpace(p); len(msg) > 0 {
		log.Error().Str("detector", "deadlock").Msg(string(msg))
	}
	return len(p), nil
}

type Mutex struct {
	deadlock.Mutex
}

type RWMutex struct {
	deadlock.RWMutex
}
