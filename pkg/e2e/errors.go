// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import "errors"

var (
	// ErrPayloadTooLarge is returned when a payload does not fit in one frame
	ErrPayloadTooLarge = errors.New("e2e: payload too large")

	// ErrFrameTooShort is returned when a frame lacks counter or checksum
	ErrFrameTooShort = errors.New("e2e: frame too short")

	// ErrFrameTooLong is returned for frames longer than a classic CAN data field
	ErrFrameTooLong = errors.New("e2e: frame too long")

	// ErrUnknownVariant is returned when parsing an unknown checksum variant name
	ErrUnknownVariant = errors.New("e2e: unknown checksum variant")
)
