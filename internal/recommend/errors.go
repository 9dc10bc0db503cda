// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package recommend

import (
	"errors"
	"fmt"
)

// ErrNoDataProvider is returned when generation is attempted before a data
// provider has been attached to the engine.
var ErrNoDataProvider = errors.New("data provider not set")

// ErrNoSignals is returned when generation is attempted with no registered
// signals.
var ErrNoSignals = errors.New("no signals registered")

// DataIntegrityError reports malformed or dimension-mismatched feature
// vectors. It is surfaced to the caller and never retried.
type DataIntegrityError struct {
	// Op names the computation that detected the mismatch.
	Op string

	// Want and Got are the expected and observed dimensions.
	Want int
	Got  int
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s: dimension mismatch (want %d, got %d)", e.Op, e.Want, e.Got)
}

// IsDataIntegrity reports whether err wraps a DataIntegrityError.
func IsDataIntegrity(err error) bool {
	var die *DataIntegrityError
	return errors.As(err, &die)
}
