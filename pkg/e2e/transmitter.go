// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import "fmt"

// TransmitterState is the protocol state owned by a Transmitter
type TransmitterState struct {
	Counter   uint8
	SentCount uint
}

// Transmitter accumulates keypad input and packages it into protected frames
type Transmitter struct {
	cfg       Config
	counter   SequenceCounter
	sentCount uint
	buffer    []byte
}

// NewTransmitter creates a transmitter. The checksum defaults to
// ChecksumNibbleComplement.
func NewTransmitter(opts ...Option) *Transmitter {
	cfg := defaultConfig()
	cfg.Variant = ChecksumNibbleComplement
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Transmitter{
		cfg:    cfg,
		buffer: make([]byte, 0, MaxInputChars),
	}
}

// Config returns the transmitter configuration
func (t *Transmitter) Config() Config {
	return t.cfg
}

// State returns a snapshot of the sequence state
func (t *Transmitter) State() TransmitterState {
	return TransmitterState{Counter: t.counter.Value(), SentCount: t.sentCount}
}

// Buffer returns a copy of the pending input
func (t *Transmitter) Buffer() []byte {
	return append([]byte(nil), t.buffer...)
}

// Append adds a character to the input buffer.
// Returns false when the buffer is full and the character was dropped.
func (t *Transmitter) Append(key byte) bool {
	if len(t.buffer) >= MaxInputChars {
		return false
	}
	t.buffer = append(t.buffer, key)
	return true
}

// Cancel discards the pending input without transmitting
func (t *Transmitter) Cancel() {
	t.buffer = t.buffer[:0]
}

// Commit builds the frame for the pending input and clears the buffer.
// Returns nil if the buffer is empty.
//
// Only the first MaxAdvancingCommits commits advance the counter; every
// later frame carries the same value.
func (t *Transmitter) Commit() (*Frame, error) {
	if len(t.buffer) == 0 {
		return nil, nil
	}

	if t.sentCount < MaxAdvancingCommits {
		t.counter.Advance()
		t.sentCount++
	}

	frame, err := EncodeFrame(t.counter.Value(), t.buffer, t.cfg.Variant)
	t.buffer = t.buffer[:0]
	if err != nil {
		return nil, err
	}
	return &frame, nil
}

// HandleKey dispatches a single key press: CommitKey builds and sends a
// frame, anything else is appended. CancelKey clears the buffer only when
// enabled with WithCancelKey; otherwise it is an ordinary character.
// Returns the transmitted frame, or nil if nothing was sent.
func (t *Transmitter) HandleKey(key byte, bus Bus) (*Frame, error) {
	switch {
	case key == CommitKey:
		frame, err := t.Commit()
		if err != nil || frame == nil {
			return nil, err
		}
		if err := bus.SendFrame(t.cfg.FrameID, frame.Bytes()); err != nil {
			return frame, fmt.Errorf("send frame %d: %w", frame.Counter, err)
		}
		return frame, nil

	case key == CancelKey && t.cfg.CancelKey:
		t.Cancel()
		return nil, nil

	default:
		t.Append(key)
		return nil, nil
	}
}
