// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Thermoquad/e2ecan/pkg/canwire"
	"github.com/rs/zerolog"
)

// rxQueueSize bounds frames buffered between the reader goroutine and PollFrame
const rxQueueSize = 64

// newFrameCodec returns the reader and writer for the link's frame encoding
func newFrameCodec(kind LinkKind, conn Connection) (canwire.FrameReader, canwire.FrameWriter) {
	if kind == LinkWebSocket {
		return canwire.NewCBORReader(conn), canwire.NewCBORWriter(conn)
	}
	return canwire.NewSLCANReader(conn), canwire.NewSLCANWriter(conn)
}

// isFrameError reports whether err concerns a single bad frame rather than
// the link itself
func isFrameError(err error) bool {
	return errors.Is(err, canwire.ErrMalformedSLCAN) ||
		errors.Is(err, canwire.ErrMalformedCBOR) ||
		errors.Is(err, canwire.ErrInvalidID) ||
		errors.Is(err, canwire.ErrInvalidLen)
}

// openSLCANChannel configures the adapter bitrate and opens the CAN channel
func openSLCANChannel(conn Connection, bitrate int) error {
	cmds, err := canwire.SLCANOpenCommands(bitrate)
	if err != nil {
		return err
	}
	for _, c := range cmds {
		if _, err := io.WriteString(conn, c); err != nil {
			return fmt.Errorf("failed to open SLCAN channel: %w", err)
		}
	}
	return nil
}

// linkBus adapts a serial or WebSocket connection to e2e.Bus.
// A reader goroutine fills a bounded queue so PollFrame never blocks.
type linkBus struct {
	conn   Connection
	kind   LinkKind
	reader canwire.FrameReader
	writer canwire.FrameWriter
	filter canwire.Filter
	log    zerolog.Logger

	writeMu sync.Mutex
	frames  chan canwire.Frame
	done    chan struct{}
	dropped atomic.Uint64

	errMu sync.Mutex
	err   error
}

// newLinkBus starts receiving on conn. Serial links get the SLCAN open
// sequence for bitrate first.
func newLinkBus(conn Connection, kind LinkKind, bitrate int, filter canwire.Filter, log zerolog.Logger) (*linkBus, error) {
	if kind == LinkSerial {
		if err := openSLCANChannel(conn, bitrate); err != nil {
			return nil, err
		}
	}

	r, w := newFrameCodec(kind, conn)
	b := &linkBus{
		conn:   conn,
		kind:   kind,
		reader: r,
		writer: w,
		filter: filter,
		log:    log,
		frames: make(chan canwire.Frame, rxQueueSize),
		done:   make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

func (b *linkBus) readLoop() {
	defer close(b.done)
	for {
		f, err := b.reader.ReadFrame()
		if err != nil {
			if isFrameError(err) {
				b.log.Warn().Err(err).Msg("discarding frame")
				continue
			}
			b.setErr(err)
			return
		}
		if f.Extended || !b.filter.Match(f.ID) {
			continue
		}

		select {
		case b.frames <- f:
		default:
			n := b.dropped.Add(1)
			b.log.Warn().Uint32("id", f.ID).Uint64("dropped", n).Msg("receive queue full")
		}
	}
}

func (b *linkBus) setErr(err error) {
	b.errMu.Lock()
	defer b.errMu.Unlock()
	if b.err == nil {
		b.err = err
	}
}

// Err returns the error that stopped the reader, if any
func (b *linkBus) Err() error {
	b.errMu.Lock()
	defer b.errMu.Unlock()
	return b.err
}

// Done is closed once the reader goroutine has stopped
func (b *linkBus) Done() <-chan struct{} {
	return b.done
}

// Dropped returns the number of frames lost to a full receive queue
func (b *linkBus) Dropped() uint64 {
	return b.dropped.Load()
}

// SendFrame implements e2e.Bus
func (b *linkBus) SendFrame(id uint32, data []byte) error {
	f := canwire.NewFrame(id, data)
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return b.writer.WriteFrame(f)
}

// PollFrame implements e2e.Bus
func (b *linkBus) PollFrame() (uint32, []byte, bool) {
	select {
	case f := <-b.frames:
		return f.ID, f.Data, true
	default:
		return 0, nil, false
	}
}

// Close closes the SLCAN channel on serial links and then the connection
func (b *linkBus) Close() error {
	if b.kind == LinkSerial {
		b.writeMu.Lock()
		if _, err := io.WriteString(b.conn, canwire.SLCANCloseCommand); err != nil {
			b.log.Debug().Err(err).Msg("failed to close SLCAN channel")
		}
		b.writeMu.Unlock()
	}
	return b.conn.Close()
}

// loopbackBus delivers every sent frame to its own receive queue
type loopbackBus struct {
	mu     sync.Mutex
	frames []canwire.Frame
}

// SendFrame implements e2e.Bus
func (l *loopbackBus) SendFrame(id uint32, data []byte) error {
	f := canwire.NewFrame(id, data)
	if err := f.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, f)
	return nil
}

// PollFrame implements e2e.Bus
func (l *loopbackBus) PollFrame() (uint32, []byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.frames) == 0 {
		return 0, nil, false
	}
	f := l.frames[0]
	l.frames = l.frames[1:]
	return f.ID, f.Data, true
}
