// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("submission in progress")

	ErrUnknownItem = errors.New("unknown item")

	// ErrConfigMissing means the config collaborator answered without a usable timeout.
	ErrConfigMissing = errors.New("config missing reset_selection_timeout_seconds")
)

// PreconditionError is returned by Submit when the selection is not exactly full.
type PreconditionError struct {
	Have int
	Want int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("submit requires exactly %d items, have %d", e.Want, e.Have)
}

// CollaboratorUnavailableError wraps a network, storage or config fetch failure.
// The session stays usable; the caller may retry.
type CollaboratorUnavailableError struct {
	Op  string
	Err error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("%s: collaborator unavailable: %v", e.Op, e.Err)
}

func (e *CollaboratorUnavailableError) Unwrap() error {
	return e.Err
}
