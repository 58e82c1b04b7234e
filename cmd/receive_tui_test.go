// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/Thermoquad/e2ecan/pkg/e2e"
	tea "github.com/charmbracelet/bubbletea"
)

func encodeB(t *testing.T, counter uint8, payload string) []byte {
	t.Helper()
	f, err := e2e.EncodeFrame(counter, []byte(payload), e2e.ChecksumNibbleSum)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	return f.Bytes()
}

func feed(m model, ev e2e.FrameEvent) model {
	next, _ := m.Update(frameEventMsg(ev))
	return next.(model)
}

func TestModel_TracksIndicatorAndFrames(t *testing.T) {
	rx := e2e.NewReceiver()
	m := initialModel("test", e2e.ChecksumNibbleSum, false)

	m = feed(m, rx.Process(0x666, encodeB(t, 0, "1")))
	if !m.hasIndicator || m.indicator != e2e.IndicatorOK {
		t.Fatalf("indicator = %v (set %v), want OK", m.indicator, m.hasIndicator)
	}

	m = feed(m, rx.Process(0x666, encodeB(t, 5, "2")))
	if m.indicator != e2e.IndicatorFault {
		t.Errorf("indicator after sequence mismatch = %v, want FAULT", m.indicator)
	}

	if len(m.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.rows))
	}
	if m.rows[0][5] != "SEQUENCE_MISMATCH" || m.rows[1][5] != "ACCEPTED" {
		t.Errorf("rows not newest first: %v", m.rows)
	}
	if m.stats.AcceptedFrames != 1 || m.stats.SequenceMismatches != 1 {
		t.Errorf("stats = %+v", m.stats)
	}
	if len(m.eventLog) != 1 || !m.eventLog[0].isError {
		t.Errorf("event log = %+v, want one error entry", m.eventLog)
	}
	if m.state.ExpectedCounter != 1 || m.state.ValidCount != 1 {
		t.Errorf("state = %+v", m.state)
	}
}

func TestModel_DecodeErrorKeepsIndicator(t *testing.T) {
	rx := e2e.NewReceiver()
	m := initialModel("test", e2e.ChecksumNibbleSum, true)

	m = feed(m, rx.Process(0x666, encodeB(t, 0, "1")))
	m = feed(m, rx.Process(0x666, []byte{0x01}))

	if m.indicator != e2e.IndicatorOK {
		t.Errorf("indicator = %v, want OK", m.indicator)
	}
	if len(m.rows) != 1 {
		t.Errorf("rows = %d, want 1", len(m.rows))
	}
	if m.stats.DecodeErrors != 1 {
		t.Errorf("DecodeErrors = %d, want 1", m.stats.DecodeErrors)
	}
	// show-all logs the accepted frame too
	if len(m.eventLog) != 2 || m.eventLog[0].isError || !m.eventLog[1].isError {
		t.Errorf("event log = %+v", m.eventLog)
	}
}

func TestModel_RowLimit(t *testing.T) {
	rx := e2e.NewReceiver()
	m := initialModel("test", e2e.ChecksumNibbleSum, false)
	m.maxRows = 3

	for i := 0; i < 5; i++ {
		m = feed(m, rx.Process(0x666, encodeB(t, uint8(i), "x")))
	}
	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}
	if m.rows[0][2] != "4" {
		t.Errorf("newest row counter = %s, want 4", m.rows[0][2])
	}
}

func TestModel_QuitAndView(t *testing.T) {
	m := initialModel("Serial: /dev/null", e2e.ChecksumNibbleSum, false)

	next, _ := m.Update(linkErrMsg{err: errors.New("adapter unplugged")})
	m = next.(model)
	view := m.View()
	for _, want := range []string{"E2ECAN - INDICATOR NODE", "Serial: /dev/null", "Waiting for frames", "adapter unplugged"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !next.(model).quitting || cmd == nil {
		t.Error("q should quit")
	}
}
