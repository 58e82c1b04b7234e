// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package canwire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SLCAN control characters
const (
	slcanTerminator = '\r'
	slcanBell       = '\a' // adapter error reply
)

var (
	ErrMalformedSLCAN     = errors.New("canwire: malformed SLCAN frame")
	ErrUnsupportedBitrate = errors.New("canwire: unsupported SLCAN bitrate")
)

// slcanBitrates maps bitrates to the SLCAN "Sn" setup codes
var slcanBitrates = map[int]byte{
	10000:   '0',
	20000:   '1',
	50000:   '2',
	100000:  '3',
	125000:  '4',
	250000:  '5',
	500000:  '6',
	800000:  '7',
	1000000: '8',
}

// SLCANOpenCommands returns the commands that close, configure and open an
// adapter channel at the given bitrate
func SLCANOpenCommands(bitrate int) ([]string, error) {
	code, ok := slcanBitrates[bitrate]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitrate, bitrate)
	}
	return []string{"C\r", "S" + string(code) + "\r", "O\r"}, nil
}

// SLCANCloseCommand closes the adapter channel
const SLCANCloseCommand = "C\r"

// EncodeSLCAN converts a frame into an SLCAN transmit command
func EncodeSLCAN(f Frame) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	if f.Extended {
		b.WriteByte('T')
		fmt.Fprintf(&b, "%08X", f.ID)
	} else {
		b.WriteByte('t')
		fmt.Fprintf(&b, "%03X", f.ID)
	}
	b.WriteByte('0' + f.DLC())
	for _, d := range f.Data {
		fmt.Fprintf(&b, "%02X", d)
	}
	b.WriteByte(slcanTerminator)
	return b.String(), nil
}

// DecodeSLCAN parses one SLCAN frame line, with or without the trailing CR.
// Remote frames ('r'/'R') are rejected since they carry no data.
func DecodeSLCAN(line string) (Frame, error) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return Frame{}, fmt.Errorf("%w: empty line", ErrMalformedSLCAN)
	}

	var f Frame
	idLen := 3
	switch line[0] {
	case 't':
	case 'T':
		f.Extended = true
		idLen = 8
	default:
		return Frame{}, fmt.Errorf("%w: unexpected command %q", ErrMalformedSLCAN, line[0])
	}

	if len(line) < 1+idLen+1 {
		return Frame{}, fmt.Errorf("%w: %q too short", ErrMalformedSLCAN, line)
	}

	id, err := strconv.ParseUint(line[1:1+idLen], 16, 32)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: identifier: %v", ErrMalformedSLCAN, err)
	}
	f.ID = uint32(id)

	dlc := int(line[1+idLen] - '0')
	if dlc < 0 || dlc > MaxDataLen {
		return Frame{}, fmt.Errorf("%w: dlc %q", ErrMalformedSLCAN, line[1+idLen])
	}

	hexData := line[2+idLen:]
	// Adapters may append a 4-digit timestamp after the data
	if len(hexData) != dlc*2 && len(hexData) != dlc*2+4 {
		return Frame{}, fmt.Errorf("%w: expected %d data bytes in %q", ErrMalformedSLCAN, dlc, line)
	}

	f.Data = make([]byte, dlc)
	for i := 0; i < dlc; i++ {
		v, err := strconv.ParseUint(hexData[i*2:i*2+2], 16, 8)
		if err != nil {
			return Frame{}, fmt.Errorf("%w: data: %v", ErrMalformedSLCAN, err)
		}
		f.Data[i] = byte(v)
	}

	return f, f.Validate()
}

// SLCANReader reads frames from an SLCAN byte stream
type SLCANReader struct {
	r *bufio.Reader
}

// NewSLCANReader wraps r
func NewSLCANReader(r io.Reader) *SLCANReader {
	return &SLCANReader{r: bufio.NewReader(r)}
}

// ReadFrame returns the next data frame.
// Adapter acknowledgements (empty lines, "z"/"Z") and bell error replies
// are skipped. An unparsable line returns an error wrapping
// ErrMalformedSLCAN; the reader stays usable.
func (s *SLCANReader) ReadFrame() (Frame, error) {
	for {
		line, err := s.r.ReadString(slcanTerminator)
		if err != nil {
			return Frame{}, err
		}

		line = strings.TrimLeft(line, string(slcanBell)+"\n")
		line = strings.TrimRight(line, "\r")
		if line == "" || line == "z" || line == "Z" {
			continue
		}
		return DecodeSLCAN(line)
	}
}

// SLCANWriter writes frames as SLCAN transmit commands
type SLCANWriter struct {
	w io.Writer
}

// NewSLCANWriter wraps w
func NewSLCANWriter(w io.Writer) *SLCANWriter {
	return &SLCANWriter{w: w}
}

// WriteFrame encodes and writes one frame
func (s *SLCANWriter) WriteFrame(f Frame) error {
	cmd, err := EncodeSLCAN(f)
	if err != nil {
		return err
	}
	_, err = io.WriteString(s.w, cmd)
	return err
}
