// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import "testing"

func TestNextCounter(t *testing.T) {
	tests := []struct {
		in, want uint8
	}{
		{0, 1},
		{1, 2},
		{253, 254},
		{254, 0},
		{255, 1},
	}
	for _, tt := range tests {
		if got := NextCounter(tt.in); got != tt.want {
			t.Errorf("NextCounter(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSequenceCounter_Wraps(t *testing.T) {
	var c SequenceCounter
	for i := 0; i < CounterModulus; i++ {
		c.Advance()
	}
	if c.Value() != 0 {
		t.Errorf("after %d advances value = %d, want 0", CounterModulus, c.Value())
	}

	c.Set(10)
	if got := c.Advance(); got != 11 {
		t.Errorf("Advance() = %d, want 11", got)
	}
}
