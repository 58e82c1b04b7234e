// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

// Outcome is the result of validating one received frame
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeSequenceMismatch
	OutcomeChecksumMismatch
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "ACCEPTED"
	case OutcomeSequenceMismatch:
		return "SEQUENCE_MISMATCH"
	case OutcomeChecksumMismatch:
		return "CHECKSUM_MISMATCH"
	default:
		return "UNKNOWN"
	}
}

// ReceiverState is the protocol state owned by a Receiver
type ReceiverState struct {
	ExpectedCounter uint8
	ValidCount      uint
}

// Result describes a validated frame
type Result struct {
	Frame    Frame
	Outcome  Outcome
	Expected uint8 // expected counter at the time of validation
	Computed uint8 // locally computed checksum; zero on sequence mismatch
}

// Indicator returns the indicator state for this result
func (r Result) Indicator(validCount uint) Indicator {
	return IndicatorFor(r.Outcome, validCount)
}

// Receiver validates incoming frames in strict counter order
type Receiver struct {
	cfg        Config
	expected   SequenceCounter
	validCount uint
}

// NewReceiver creates a receiver expecting counter 0. The checksum defaults
// to ChecksumNibbleSum.
func NewReceiver(opts ...Option) *Receiver {
	cfg := defaultConfig()
	cfg.Variant = ChecksumNibbleSum
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Receiver{cfg: cfg}
}

// Config returns the receiver configuration
func (r *Receiver) Config() Config {
	return r.cfg
}

// State returns a snapshot of the sequence state
func (r *Receiver) State() ReceiverState {
	return ReceiverState{ExpectedCounter: r.expected.Value(), ValidCount: r.validCount}
}

// Validate decodes and checks one frame.
//
// The counter is checked first; on a mismatch the checksum is not examined
// and nothing changes, so the receiver keeps waiting for the same value.
// Only an accepted frame advances the expected counter and the valid count.
// A frame too short to decode returns an error and no outcome.
func (r *Receiver) Validate(data []byte) (Result, error) {
	frame, err := DecodeFrame(data)
	if err != nil {
		return Result{}, err
	}

	res := Result{Frame: frame, Expected: r.expected.Value()}

	if frame.Counter != res.Expected {
		res.Outcome = OutcomeSequenceMismatch
		return res, nil
	}

	res.Computed = frame.ExpectedChecksum(r.cfg.Variant)
	if res.Computed != frame.Checksum {
		res.Outcome = OutcomeChecksumMismatch
		return res, nil
	}

	res.Outcome = OutcomeAccepted
	r.validCount++
	r.expected.Set(NextCounter(frame.Counter))
	return res, nil
}
