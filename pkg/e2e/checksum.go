// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import (
	"fmt"
	"strings"
)

// ChecksumVariant selects one of the two nibble checksum algorithms.
//
// The transmitter and receiver firmware do not agree on the algorithm:
// the transmitter folds carries and complements, the receiver keeps the raw
// sum. Both are kept as separate variants so each node can be configured to
// match the peer it talks to.
type ChecksumVariant int

const (
	// ChecksumNibbleComplement sums nibbles, folds carries into 4 bits and
	// returns the one's complement (variant A, used by the transmitter).
	ChecksumNibbleComplement ChecksumVariant = iota

	// ChecksumNibbleSum returns the raw 8-bit nibble sum (variant B, used by
	// the receiver).
	ChecksumNibbleSum
)

// Compute calculates the checksum of data with this variant
func (v ChecksumVariant) Compute(data []byte) byte {
	switch v {
	case ChecksumNibbleSum:
		return CalculateNibbleSum(data)
	default:
		return CalculateNibbleComplement(data)
	}
}

// String returns the short variant name
func (v ChecksumVariant) String() string {
	switch v {
	case ChecksumNibbleComplement:
		return "A"
	case ChecksumNibbleSum:
		return "B"
	default:
		return fmt.Sprintf("ChecksumVariant(%d)", int(v))
	}
}

// Description returns a longer human-readable name
func (v ChecksumVariant) Description() string {
	switch v {
	case ChecksumNibbleComplement:
		return "nibble sum, folded, one's complement"
	case ChecksumNibbleSum:
		return "nibble sum, raw 8-bit"
	default:
		return "unknown"
	}
}

// ParseChecksumVariant accepts "a", "b", "nibble-complement" or "nibble-sum"
func ParseChecksumVariant(s string) (ChecksumVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "nibble-complement":
		return ChecksumNibbleComplement, nil
	case "b", "nibble-sum":
		return ChecksumNibbleSum, nil
	}
	return 0, fmt.Errorf("%w: %q (use a or b)", ErrUnknownVariant, s)
}

// sumNibbles adds every 4-bit block of data, low nibble first
func sumNibbles(data []byte) uint32 {
	var sum uint32
	blocks := len(data) * 2
	for i := 0; i < blocks; i++ {
		shift := uint(i%2) * 4
		sum += uint32(data[i/2]>>shift) & 0x0F
	}
	return sum
}

// CalculateNibbleComplement computes the variant A checksum.
// The result only ever occupies the low 4 bits.
func CalculateNibbleComplement(data []byte) byte {
	sum := sumNibbles(data)
	for sum>>4 != 0 {
		sum = (sum & 0x0F) + (sum >> 4)
	}
	return byte(^sum) & 0x0F
}

// CalculateNibbleSum computes the variant B checksum
func CalculateNibbleSum(data []byte) byte {
	return byte(sumNibbles(data) & 0xFF)
}
