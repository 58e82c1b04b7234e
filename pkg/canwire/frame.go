// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package canwire carries classic CAN frames over host links: the SLCAN
// ASCII protocol spoken by USB-CAN adapters on a serial port, and a CBOR
// framing used over WebSocket bridges.
package canwire

import (
	"errors"
	"fmt"
)

// Identifier and length limits (classic CAN 2.0A/2.0B)
const (
	MaxStdID   = 0x7FF
	MaxExtID   = 0x1FFFFFFF
	MaxDataLen = 8
)

var (
	ErrInvalidID  = errors.New("canwire: invalid identifier")
	ErrInvalidLen = errors.New("canwire: invalid data length")
)

// Frame is a classic CAN data frame
type Frame struct {
	ID       uint32
	Extended bool // 29-bit identifier
	Data     []byte
}

// NewFrame creates a standard-identifier data frame
func NewFrame(id uint32, data []byte) Frame {
	return Frame{ID: id, Data: append([]byte(nil), data...)}
}

// Validate returns an error if the frame cannot be sent on a classic CAN bus
func (f Frame) Validate() error {
	if len(f.Data) > MaxDataLen {
		return fmt.Errorf("%w: %d", ErrInvalidLen, len(f.Data))
	}
	limit := uint32(MaxStdID)
	if f.Extended {
		limit = MaxExtID
	}
	if f.ID > limit {
		return fmt.Errorf("%w: 0x%X", ErrInvalidID, f.ID)
	}
	return nil
}

// DLC returns the data length code
func (f Frame) DLC() uint8 {
	return uint8(len(f.Data))
}

// Filter is an identifier/mask acceptance filter.
// A frame matches when its identifier equals ID on every bit set in Mask;
// the zero Filter accepts every frame.
type Filter struct {
	ID   uint32
	Mask uint32
}

// Match reports whether id passes the filter
func (f Filter) Match(id uint32) bool {
	return id&f.Mask == f.ID&f.Mask
}
