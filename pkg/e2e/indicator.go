// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

// Indicator is the two-state receiver status output
type Indicator int

const (
	IndicatorOK Indicator = iota
	IndicatorFault
)

// String returns "OK" or "FAULT"
func (i Indicator) String() string {
	if i == IndicatorOK {
		return "OK"
	}
	return "FAULT"
}

// Color returns the LED color the firmware uses for this state
func (i Indicator) Color() string {
	if i == IndicatorOK {
		return "green"
	}
	return "red"
}

// IndicatorFor maps a validation outcome and the running valid-frame count to
// the indicator state. Accepted frames show OK only while validCount is at or
// below ValidCountThreshold; the count is never reset, so once it passes the
// threshold every later frame shows FAULT.
func IndicatorFor(outcome Outcome, validCount uint) Indicator {
	if outcome != OutcomeAccepted {
		return IndicatorFault
	}
	if validCount <= ValidCountThreshold {
		return IndicatorOK
	}
	return IndicatorFault
}
