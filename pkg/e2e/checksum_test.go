// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import (
	"errors"
	"testing"
)

func TestCalculateNibbleComplement(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{name: "empty data", data: []byte{}, expected: 0x0F},
		{name: "single low nibble", data: []byte{0x10}, expected: 0x0E},
		{name: "counter and two digits", data: []byte{0x01, '1', '2'}, expected: 0x05},
		{name: "carry folded", data: []byte{0x00, '1', '2', '3', '4'}, expected: 0x08},
		{name: "single 0xFF", data: []byte{0xFF}, expected: 0x00},
		{name: "full frame of 0xFF", data: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, expected: 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateNibbleComplement(tt.data)
			if result != tt.expected {
				t.Errorf("CalculateNibbleComplement() = 0x%02X, want 0x%02X", result, tt.expected)
			}
		})
	}
}

func TestCalculateNibbleSum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected byte
	}{
		{name: "empty data", data: []byte{}, expected: 0x00},
		{name: "single low nibble", data: []byte{0x10}, expected: 0x01},
		{name: "counter and two digits", data: []byte{0x01, '1', '2'}, expected: 0x0A},
		{name: "no carry fold", data: []byte{0x00, '1', '2', '3', '4'}, expected: 0x16},
		{name: "full frame of 0xFF", data: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, expected: 0xD2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateNibbleSum(tt.data)
			if result != tt.expected {
				t.Errorf("CalculateNibbleSum() = 0x%02X, want 0x%02X", result, tt.expected)
			}
		})
	}
}

func TestNibbleComplement_Deterministic(t *testing.T) {
	data := []byte{0x02, 'A', '7', '#'}
	first := CalculateNibbleComplement(data)
	for i := 0; i < 10; i++ {
		if got := CalculateNibbleComplement(data); got != first {
			t.Fatalf("checksum changed between calls: 0x%02X != 0x%02X", got, first)
		}
	}
}

func TestNibbleComplement_LowNibbleOnly(t *testing.T) {
	rng := newFuzzRng(t)
	for i := 0; i < getFuzzRounds(); i++ {
		data := make([]byte, rng.Intn(MaxFrameSize))
		rng.Read(data)
		if got := CalculateNibbleComplement(data); got&0xF0 != 0 {
			t.Fatalf("variant A output 0x%02X uses high nibble for %X", got, data)
		}
	}
}

func TestNibbleSum_UsesHighNibble(t *testing.T) {
	if got := CalculateNibbleSum([]byte{0xFF, 0xFF}); got&0xF0 == 0 {
		t.Errorf("expected 8-bit result, got 0x%02X", got)
	}
}

func TestChecksumVariant_Compute(t *testing.T) {
	data := []byte{0x01, '1', '2'}
	if got := ChecksumNibbleComplement.Compute(data); got != CalculateNibbleComplement(data) {
		t.Errorf("variant A Compute = 0x%02X", got)
	}
	if got := ChecksumNibbleSum.Compute(data); got != CalculateNibbleSum(data) {
		t.Errorf("variant B Compute = 0x%02X", got)
	}
	// The two variants disagree on ordinary input
	if ChecksumNibbleComplement.Compute(data) == ChecksumNibbleSum.Compute(data) {
		t.Error("variants A and B should differ for this input")
	}
}

func TestParseChecksumVariant(t *testing.T) {
	tests := []struct {
		input    string
		expected ChecksumVariant
		wantErr  bool
	}{
		{input: "a", expected: ChecksumNibbleComplement},
		{input: "A", expected: ChecksumNibbleComplement},
		{input: "nibble-complement", expected: ChecksumNibbleComplement},
		{input: "b", expected: ChecksumNibbleSum},
		{input: " nibble-sum ", expected: ChecksumNibbleSum},
		{input: "crc16", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseChecksumVariant(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownVariant) {
					t.Errorf("expected ErrUnknownVariant, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v != tt.expected {
				t.Errorf("got %v, want %v", v, tt.expected)
			}
		})
	}
}

func TestChecksumVariant_String(t *testing.T) {
	if ChecksumNibbleComplement.String() != "A" || ChecksumNibbleSum.String() != "B" {
		t.Errorf("unexpected names: %s %s", ChecksumNibbleComplement, ChecksumNibbleSum)
	}
}
