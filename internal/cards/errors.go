// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"errors"
	"fmt"

	"github.com/jeranaias/docildos/internal/model"
)

var (
	// ErrUnknownCardType is returned for a tag with no registered resolver.
	ErrUnknownCardType = errors.New("unknown card type")

	// ErrInvalidPayload is returned when a payload fails to decode or validate.
	ErrInvalidPayload = errors.New("invalid card payload")

	// ErrInvalidTransition is returned by OrderView.Advance for any target
	// other than the next status of the order.
	ErrInvalidTransition = errors.New("invalid order transition")
)

// PayloadError describes why a card payload was rejected.
type PayloadError struct {
	Type   model.CardType
	Reason string
	Err    error
}

func (e *PayloadError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s card: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("%s card: %v", e.Type, e.Err)
}

// Unwrap lets errors.Is match ErrInvalidPayload and the decode cause.
func (e *PayloadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidPayload}
	}
	return []error{ErrInvalidPayload, e.Err}
}
