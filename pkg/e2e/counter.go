// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

// NextCounter returns the value following c, modulo CounterModulus.
// 254 wraps to 0; an out-of-range 255 read off the wire maps to 1.
func NextCounter(c uint8) uint8 {
	return uint8((uint16(c) + 1) % CounterModulus)
}

// SequenceCounter is the modular counter carried in byte 0 of every frame
type SequenceCounter struct {
	value uint8
}

// Value returns the current counter value
func (c *SequenceCounter) Value() uint8 {
	return c.value
}

// Advance moves the counter forward and returns the new value
func (c *SequenceCounter) Advance() uint8 {
	c.value = NextCounter(c.value)
	return c.value
}

// Set overwrites the counter value
func (c *SequenceCounter) Set(v uint8) {
	c.value = v
}
