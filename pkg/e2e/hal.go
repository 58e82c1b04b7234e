// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

// Bus is the CAN link as seen by the protocol logic
type Bus interface {
	// SendFrame queues a data frame with a standard identifier
	SendFrame(id uint32, data []byte) error

	// PollFrame returns the next received frame without blocking.
	// ok is false when the receive queue is empty.
	PollFrame() (id uint32, data []byte, ok bool)
}

// Keypad delivers debounced key presses
type Keypad interface {
	// ReadKey returns the next key without blocking; ok is false if none
	ReadKey() (key byte, ok bool)
}

// IndicatorSink drives the two-state visual indicator
type IndicatorSink interface {
	SetIndicator(Indicator)
}

// IndicatorFunc adapts a function to IndicatorSink
type IndicatorFunc func(Indicator)

// SetIndicator calls f(ind)
func (f IndicatorFunc) SetIndicator(ind Indicator) {
	f(ind)
}
