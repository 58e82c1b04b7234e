// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import "fmt"

// Frame is a decoded E2E-protected message
type Frame struct {
	Counter  uint8
	Payload  []byte
	Checksum uint8
}

// EncodeFrame builds a frame for counter and payload, protecting
// [counter] ++ payload with the given checksum variant.
func EncodeFrame(counter uint8, payload []byte, variant ChecksumVariant) (Frame, error) {
	if len(payload) > MaxPayloadSize {
		return Frame{}, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxPayloadSize)
	}

	f := Frame{
		Counter: counter,
		Payload: append([]byte(nil), payload...),
	}
	f.Checksum = variant.Compute(f.protected())
	return f, nil
}

// DecodeFrame splits raw CAN data into counter, payload and checksum.
// The checksum is not verified here.
func DecodeFrame(data []byte) (Frame, error) {
	if len(data) < FrameOverhead {
		return Frame{}, fmt.Errorf("%w: %d bytes (min %d)", ErrFrameTooShort, len(data), FrameOverhead)
	}
	if len(data) > MaxFrameSize {
		return Frame{}, fmt.Errorf("%w: %d bytes (max %d)", ErrFrameTooLong, len(data), MaxFrameSize)
	}

	last := len(data) - 1
	return Frame{
		Counter:  data[0],
		Payload:  append([]byte(nil), data[1:last]...),
		Checksum: data[last],
	}, nil
}

// protected returns the bytes covered by the checksum
func (f Frame) protected() []byte {
	buf := make([]byte, 0, len(f.Payload)+1)
	buf = append(buf, f.Counter)
	return append(buf, f.Payload...)
}

// Bytes returns the wire representation [counter][payload...][checksum]
func (f Frame) Bytes() []byte {
	return append(f.protected(), f.Checksum)
}

// Len returns the wire length, which is also the CAN DLC
func (f Frame) Len() int {
	return len(f.Payload) + FrameOverhead
}

// ExpectedChecksum recomputes the checksum with the given variant
func (f Frame) ExpectedChecksum(variant ChecksumVariant) uint8 {
	return variant.Compute(f.protected())
}

// Verify reports whether the carried checksum matches the given variant
func (f Frame) Verify(variant ChecksumVariant) bool {
	return f.Checksum == f.ExpectedChecksum(variant)
}
