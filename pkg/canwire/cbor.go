// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package canwire

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ErrMalformedCBOR is returned for a well-formed CBOR item that is not a
// frame map. The item has been consumed, so a stream reader stays usable.
var ErrMalformedCBOR = errors.New("canwire: malformed CBOR frame")

// cborFrame is the bridge representation: {0: id, 1: extended, 2: data}
type cborFrame struct {
	ID       uint32 `cbor:"0,keyasint"`
	Extended bool   `cbor:"1,keyasint,omitempty"`
	Data     []byte `cbor:"2,keyasint"`
}

// EncodeCBOR encodes a frame as a single CBOR map
func EncodeCBOR(f Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	data, err := cbor.Marshal(cborFrame{ID: f.ID, Extended: f.Extended, Data: f.Data})
	if err != nil {
		return nil, fmt.Errorf("failed to encode CBOR frame: %w", err)
	}
	return data, nil
}

// DecodeCBOR decodes a frame produced by EncodeCBOR
func DecodeCBOR(data []byte) (Frame, error) {
	var cf cborFrame
	if err := cbor.Unmarshal(data, &cf); err != nil {
		var typeErr *cbor.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Frame{}, fmt.Errorf("%w: %v", ErrMalformedCBOR, err)
		}
		return Frame{}, fmt.Errorf("failed to decode CBOR frame: %w", err)
	}
	f := Frame{ID: cf.ID, Extended: cf.Extended, Data: cf.Data}
	return f, f.Validate()
}

// CBORReader reads a stream of concatenated CBOR frames
type CBORReader struct {
	dec *cbor.Decoder
}

// NewCBORReader wraps r
func NewCBORReader(r io.Reader) *CBORReader {
	return &CBORReader{dec: cbor.NewDecoder(r)}
}

// ReadFrame returns the next frame in the stream
func (c *CBORReader) ReadFrame() (Frame, error) {
	var cf cborFrame
	if err := c.dec.Decode(&cf); err != nil {
		var typeErr *cbor.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Frame{}, fmt.Errorf("%w: %v", ErrMalformedCBOR, err)
		}
		return Frame{}, err
	}
	f := Frame{ID: cf.ID, Extended: cf.Extended, Data: cf.Data}
	return f, f.Validate()
}

// CBORWriter writes each frame with a single Write call, so message-based
// transports carry exactly one frame per message
type CBORWriter struct {
	w io.Writer
}

// NewCBORWriter wraps w
func NewCBORWriter(w io.Writer) *CBORWriter {
	return &CBORWriter{w: w}
}

// WriteFrame encodes and writes one frame
func (c *CBORWriter) WriteFrame(f Frame) error {
	data, err := EncodeCBOR(f)
	if err != nil {
		return err
	}
	_, err = c.w.Write(data)
	return err
}

// FrameReader is implemented by SLCANReader and CBORReader
type FrameReader interface {
	ReadFrame() (Frame, error)
}

// FrameWriter is implemented by SLCANWriter and CBORWriter
type FrameWriter interface {
	WriteFrame(Frame) error
}
