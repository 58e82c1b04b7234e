// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import (
	"fmt"
	"strings"
)

// FormatHex formats bytes as space-separated upper-case hex
func FormatHex(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}

// FormatPayload renders a payload as quoted text when it is printable,
// otherwise as hex
func FormatPayload(payload []byte) string {
	for _, b := range payload {
		if b < 0x20 || b > 0x7E {
			return FormatHex(payload)
		}
	}
	return fmt.Sprintf("%q", string(payload))
}

// FormatFrame formats a frame with its identifier
func FormatFrame(id uint32, f Frame) string {
	return fmt.Sprintf("id=0x%03X dlc=%d ctr=%d payload=%s chk=0x%02X",
		id, f.Len(), f.Counter, FormatPayload(f.Payload), f.Checksum)
}

// FormatFrameEvent formats a receiver event into a single log line
func FormatFrameEvent(ev FrameEvent) string {
	timestamp := ev.Time.Format("15:04:05.000")
	if ev.Err != nil {
		return fmt.Sprintf("[%s] id=0x%03X data=[%s] DECODE ERROR: %v\n", timestamp, ev.ID, FormatHex(ev.Data), ev.Err)
	}

	res := ev.Result
	line := fmt.Sprintf("[%s] %s -> %s", timestamp, FormatFrame(ev.ID, res.Frame), res.Outcome)
	switch res.Outcome {
	case OutcomeSequenceMismatch:
		line += fmt.Sprintf(" (expected ctr=%d)", res.Expected)
	case OutcomeChecksumMismatch:
		line += fmt.Sprintf(" (computed 0x%02X)", res.Computed)
	}
	return line + fmt.Sprintf(" valid=%d indicator=%s\n", ev.State.ValidCount, ev.Indicator)
}

// FormatVariantCheck reports which checksum variants accept the frame
func FormatVariantCheck(f Frame) string {
	mark := func(v ChecksumVariant) string {
		if f.Verify(v) {
			return fmt.Sprintf("%s:ok", v)
		}
		return fmt.Sprintf("%s:bad(0x%02X)", v, f.ExpectedChecksum(v))
	}
	return mark(ChecksumNibbleComplement) + " " + mark(ChecksumNibbleSum)
}
