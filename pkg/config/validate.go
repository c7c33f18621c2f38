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
	"strings"
	"sync"
	"time"

	playvalidator "github.com/go-playground/validator/v10"
)

var ErrInvalidConfig = errors.New("invalid config")

// siteRequirements are the values a catalog refresh cannot run without.
type siteRequirements struct {
	BaseURL     string   `validate:"required,url"`
	ListingURLs []string `validate:"required,min=1,dive,url"`
}

var validator = sync.OnceValue(func() *playvalidator.Validate {
	v := playvalidator.New(playvalidator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duration", validateDuration)
	return v
})

func validateDuration(fl playvalidator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	d, err := time.ParseDuration(val)
	return err == nil && d > 0
}

func validate(vals *Values) error {
	err := validator().Struct(vals)
	if err == nil {
		return nil
	}

	var verrs playvalidator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
}
