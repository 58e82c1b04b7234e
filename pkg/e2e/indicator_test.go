// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import "testing"

func TestIndicatorFor(t *testing.T) {
	tests := []struct {
		name       string
		outcome    Outcome
		validCount uint
		expected   Indicator
	}{
		{"sequence mismatch", OutcomeSequenceMismatch, 0, IndicatorFault},
		{"checksum mismatch", OutcomeChecksumMismatch, 1, IndicatorFault},
		{"first accepted", OutcomeAccepted, 1, IndicatorOK},
		{"second accepted", OutcomeAccepted, 2, IndicatorOK},
		{"third accepted", OutcomeAccepted, 3, IndicatorFault},
		{"many accepted", OutcomeAccepted, 1000, IndicatorFault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndicatorFor(tt.outcome, tt.validCount); got != tt.expected {
				t.Errorf("IndicatorFor() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestIndicator_ThresholdScenario(t *testing.T) {
	rx := NewReceiver()
	want := []Indicator{IndicatorOK, IndicatorOK, IndicatorFault}

	for i, expected := range want {
		ev := rx.Process(DefaultFrameID, encodeB(uint8(i), "1"))
		if ev.Err != nil {
			t.Fatalf("frame %d: %v", i, ev.Err)
		}
		if ev.State.ValidCount != uint(i+1) {
			t.Errorf("frame %d: ValidCount = %d, want %d", i, ev.State.ValidCount, i+1)
		}
		if ev.Indicator != expected {
			t.Errorf("frame %d: indicator = %s, want %s", i, ev.Indicator, expected)
		}
	}
}

func TestIndicator_Strings(t *testing.T) {
	if IndicatorOK.String() != "OK" || IndicatorFault.String() != "FAULT" {
		t.Error("unexpected indicator names")
	}
	if IndicatorOK.Color() != "green" || IndicatorFault.Color() != "red" {
		t.Error("unexpected indicator colors")
	}
}
