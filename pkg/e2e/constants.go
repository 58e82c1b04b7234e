// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package e2e implements a minimal End-to-End protection scheme for messages
// carried in single classic CAN frames between a keypad transmitter node and
// an indicator receiver node.
//
// Each frame is laid out as [counter][payload 0..6][checksum]. The counter
// detects loss, duplication and reordering; the checksum is a nibble sum
// computed independently of the CAN controller's own CRC.
package e2e

// Frame layout
const (
	MaxFrameSize   = 8 // classic CAN data field
	MaxPayloadSize = MaxFrameSize - 2
	FrameOverhead  = 2 // counter + checksum
)

// DefaultFrameID is the standard (11-bit) identifier used by both nodes
const DefaultFrameID = 0x666

// Sequence counter configuration
const (
	CounterModulus = 0xFF

	// MaxAdvancingCommits is the number of transmissions that advance the
	// counter; every later commit reuses the last value.
	MaxAdvancingCommits = 2
)

// ValidCountThreshold is the highest accepted-frame count that still shows OK
const ValidCountThreshold = 2

// Transmitter input
const (
	MaxInputChars = 4
	CommitKey     = '#'
	CancelKey     = '*'
)
