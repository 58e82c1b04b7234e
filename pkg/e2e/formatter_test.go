// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import (
	"strings"
	"testing"
	"time"
)

func TestFormatPayload(t *testing.T) {
	if got := FormatPayload([]byte("12A#")); got != `"12A#"` {
		t.Errorf("printable payload = %s", got)
	}
	if got := FormatPayload([]byte{0x00, 0xFF}); got != "00 FF" {
		t.Errorf("binary payload = %s", got)
	}
}

func TestFormatFrameEvent(t *testing.T) {
	frame, _ := EncodeFrame(3, []byte("9"), ChecksumNibbleSum)
	ev := FrameEvent{
		Time:      time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		ID:        DefaultFrameID,
		Result:    Result{Frame: frame, Outcome: OutcomeSequenceMismatch, Expected: 1},
		Indicator: IndicatorFault,
	}

	line := FormatFrameEvent(ev)
	for _, want := range []string{"12:00:00.000", "id=0x666", "ctr=3", "SEQUENCE_MISMATCH", "expected ctr=1", "indicator=FAULT"} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %s", want, line)
		}
	}

	ev.Err = ErrFrameTooShort
	ev.Data = []byte{0x01}
	if line := FormatFrameEvent(ev); !strings.Contains(line, "DECODE ERROR") {
		t.Errorf("decode error line: %s", line)
	}
}

func TestFormatVariantCheck(t *testing.T) {
	frame, _ := EncodeFrame(1, []byte("12"), ChecksumNibbleComplement)
	got := FormatVariantCheck(frame)
	if !strings.HasPrefix(got, "A:ok") {
		t.Errorf("variant A should verify: %s", got)
	}
	if !strings.Contains(got, "B:bad(0x0A)") {
		t.Errorf("variant B should fail with 0x0A: %s", got)
	}
}
