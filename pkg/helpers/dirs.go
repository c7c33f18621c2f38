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

package helpers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/config"
)

// UserDir is the portable install directory. When it exists next to the
// executable it replaces every other directory.
const UserDir = "user"

// Dirs are the directories the tool reads and writes.
type Dirs struct {
	// ConfigDir holds config.toml and auth.toml.
	ConfigDir string
	// DataDir holds the saved catalog files.
	DataDir string
	// LogDir holds the rotating log file.
	LogDir string
}

// DefaultDirs returns the XDG locations, or the portable user directory when
// one exists.
func DefaultDirs() Dirs {
	if v, ok := HasUserDir(); ok {
		return Dirs{ConfigDir: v, DataDir: v, LogDir: v}
	}
	return Dirs{
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		DataDir:   filepath.Join(xdg.DataHome, config.AppName),
		LogDir:    filepath.Join(xdg.StateHome, config.AppName),
	}
}

// HasUserDir checks for a "user" directory next to the executable.
func HasUserDir() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	userDir := filepath.Join(filepath.Dir(exe), UserDir)
	info, err := os.Stat(userDir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return userDir, true
}

// EnsureDirectories creates every directory in d.
func EnsureDirectories(d Dirs) error {
	for _, dir := range []struct{ name, path string }{
		{name: "config", path: d.ConfigDir},
		{name: "data", path: d.DataDir},
		{name: "log", path: d.LogDir},
	} {
		if dir.path == "" {
			continue
		}
		if err := os.MkdirAll(dir.path, 0o750); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", dir.name, err)
		}
	}
	return nil
}
