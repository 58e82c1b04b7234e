// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"strings"
	"testing"
	"time"
)

func TestKeypad_NormalizesInput(t *testing.T) {
	k := newKeypad(strings.NewReader("1a x*\r"))

	select {
	case <-k.Quit():
	case <-time.After(2 * time.Second):
		t.Fatal("reader did not stop at end of input")
	}

	var got []byte
	for {
		key, ok := k.ReadKey()
		if !ok {
			break
		}
		got = append(got, key)
	}
	if string(got) != "1A*#" {
		t.Errorf("keys = %q, want %q", got, "1A*#")
	}
	if err := k.Restore(); err != nil {
		t.Errorf("Restore without raw mode: %v", err)
	}
}

func TestKeypad_CtrlCQuits(t *testing.T) {
	k := newKeypad(strings.NewReader("12\x0334"))

	select {
	case <-k.Quit():
	case <-time.After(2 * time.Second):
		t.Fatal("Ctrl+C did not quit")
	}

	var got []byte
	for {
		key, ok := k.ReadKey()
		if !ok {
			break
		}
		got = append(got, key)
	}
	if string(got) != "12" {
		t.Errorf("keys = %q, want %q", got, "12")
	}
}

func TestKeypad_QuitNotBlockedByFullQueue(t *testing.T) {
	burst := strings.Repeat("1234567890", 4)
	k := newKeypad(strings.NewReader(burst + "\x03"))

	// Nothing drains the queue here
	select {
	case <-k.Quit():
	case <-time.After(2 * time.Second):
		t.Fatal("Ctrl+C after a burst was not seen")
	}

	n := 0
	for {
		if _, ok := k.ReadKey(); !ok {
			break
		}
		n++
	}
	if n != keyQueueSize {
		t.Errorf("queued %d keys, want %d", n, keyQueueSize)
	}
}
