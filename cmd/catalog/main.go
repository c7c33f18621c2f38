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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/ZaparooProject/zaparoo-catalog/pkg/cli"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/config"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/service"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/shared/httpclient"
	"github.com/ZaparooProject/zaparoo-catalog/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	flags := cli.SetupFlags(nil)
	if err := flags.Parse(nil); err != nil {
		return err //nolint:wrapcheck // already wrapped
	}
	if *flags.Version {
		cli.PrintVersion(os.Stdout)
		return nil
	}

	var logWriters []io.Writer
	if *flags.Debug {
		logWriters = []io.Writer{helpers.ConsoleWriter(os.Stderr)}
	}

	dirs := helpers.DefaultDirs()
	cfg, err := cli.Setup(dirs, config.BaseDefaults, logWriters)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped
	}
	if *flags.Debug {
		cfg.SetDebugLogging(true)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("panic: %v", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := storage.NewStore(nil, dirs.DataDir, nil)
	svc := service.New(cfg, httpclient.NewClientFromConfig(cfg), store)
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing service")
		}
	}()

	if !flags.Interactive() {
		return flags.Post(ctx, svc, os.Stdout) //nolint:wrapcheck // already wrapped
	}
	return cli.NewMenu(svc, os.Stdin, os.Stdout).Run(ctx) //nolint:wrapcheck // already wrapped
}
