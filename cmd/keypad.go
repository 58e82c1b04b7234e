// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Thermoquad/e2ecan/pkg/e2e"
	"golang.org/x/term"
)

const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04

	keyQueueSize = 16
)

// terminalKeypad reads keypad keys from the terminal in raw mode.
// Keys are queued by a reader goroutine; ReadKey never blocks.
type terminalKeypad struct {
	fd       int
	oldState *term.State
	keys     chan byte
	quit     chan struct{}
}

// openTerminalKeypad puts stdin into raw mode and starts reading keys.
// Ctrl+C or Ctrl+D close the quit channel.
func openTerminalKeypad() (*terminalKeypad, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}

	k := newKeypad(os.Stdin)
	k.fd = fd
	k.oldState = oldState
	return k, nil
}

// newKeypad starts reading keys from r
func newKeypad(r io.Reader) *terminalKeypad {
	k := &terminalKeypad{
		fd:   -1,
		keys: make(chan byte, keyQueueSize),
		quit: make(chan struct{}),
	}
	go k.readLoop(r)
	return k
}

func (k *terminalKeypad) readLoop(r io.Reader) {
	defer close(k.quit)
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		for _, b := range buf[:n] {
			if b == keyCtrlC || b == keyCtrlD {
				return
			}
			key, ok := e2e.NormalizeKey(b)
			if !ok {
				continue
			}
			// Drop keys while the queue is full so quit keys are still seen
			select {
			case k.keys <- key:
			default:
			}
		}
	}
}

// ReadKey implements e2e.Keypad
func (k *terminalKeypad) ReadKey() (byte, bool) {
	select {
	case key := <-k.keys:
		return key, true
	default:
		return 0, false
	}
}

// Quit is closed when the user asks to exit or input ends
func (k *terminalKeypad) Quit() <-chan struct{} {
	return k.quit
}

// Restore puts the terminal back into its original mode
func (k *terminalKeypad) Restore() error {
	if k.oldState == nil {
		return nil
	}
	return term.Restore(k.fd, k.oldState)
}
