// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// TestFuzzDecodeFrame_RandomBytes feeds random byte slices to the decoder
// and the receiver; neither may panic
func TestFuzzDecodeFrame_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	rx := NewReceiver()
	for i := 0; i < rounds; i++ {
		data := make([]byte, rng.Intn(12))
		rng.Read(data)

		frame, err := DecodeFrame(data)
		if len(data) < FrameOverhead || len(data) > MaxFrameSize {
			if err == nil {
				t.Errorf("Round %d: expected error for %d bytes", i, len(data))
			}
		} else if err != nil {
			t.Errorf("Round %d: unexpected error: %v", i, err)
		} else if !bytes.Equal(frame.Bytes(), data) {
			t.Errorf("Round %d: re-encoded %X != %X", i, frame.Bytes(), data)
		}

		rx.Process(DefaultFrameID, data)
	}
}

// TestFuzzEncodeFrame_RoundTrip encodes random payloads with both variants and
// checks that decoding restores counter and payload and verifies
func TestFuzzEncodeFrame_RoundTrip(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		counter := uint8(rng.Intn(256))
		payload := make([]byte, rng.Intn(MaxPayloadSize+1))
		rng.Read(payload)
		variant := ChecksumVariant(rng.Intn(2))

		frame, err := EncodeFrame(counter, payload, variant)
		if err != nil {
			t.Fatalf("Round %d: encode error: %v", i, err)
		}

		decoded, err := DecodeFrame(frame.Bytes())
		if err != nil {
			t.Fatalf("Round %d: decode error: %v", i, err)
		}
		if decoded.Counter != counter {
			t.Errorf("Round %d: counter %d != %d", i, decoded.Counter, counter)
		}
		if !bytes.Equal(decoded.Payload, payload) {
			t.Errorf("Round %d: payload %X != %X", i, decoded.Payload, payload)
		}
		if !decoded.Verify(variant) {
			t.Errorf("Round %d: variant %s does not verify its own frame", i, variant)
		}
	}
}

// TestFuzzReceiver_CorruptedChecksum flips checksum bits on matching-counter
// frames; the receiver must report a checksum mismatch and keep its state
func TestFuzzReceiver_CorruptedChecksum(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		rx := NewReceiver()
		payload := make([]byte, rng.Intn(MaxPayloadSize+1))
		rng.Read(payload)

		frame, _ := EncodeFrame(0, payload, ChecksumNibbleSum)
		data := frame.Bytes()
		data[len(data)-1] ^= byte(rng.Intn(255) + 1)

		res, err := rx.Validate(data)
		if err != nil {
			t.Fatalf("Round %d: unexpected error: %v", i, err)
		}
		if res.Outcome != OutcomeChecksumMismatch {
			t.Errorf("Round %d: outcome %s, want CHECKSUM_MISMATCH", i, res.Outcome)
		}
		if st := rx.State(); st.ExpectedCounter != 0 || st.ValidCount != 0 {
			t.Errorf("Round %d: state changed: %+v", i, st)
		}
	}
}
