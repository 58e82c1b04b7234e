// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunTransmitter_PlaysKeys(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx := NewTransmitter(WithLoopDelay(0))
	bus := &fakeBus{}
	keypad := &scriptKeypad{keys: []byte("12#x34#5678#")}

	var counters []uint8
	err := RunTransmitter(ctx, tx, keypad, bus, func(ev KeyEvent) {
		if ev.Frame != nil {
			counters = append(counters, ev.Frame.Counter)
		}
		if len(keypad.keys) == 0 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	want := []uint8{1, 2, 2}
	if len(counters) != len(want) {
		t.Fatalf("counters = %v, want %v", counters, want)
	}
	for i := range want {
		if counters[i] != want[i] {
			t.Errorf("counters = %v, want %v", counters, want)
			break
		}
	}
	if len(bus.sent) != 3 {
		t.Errorf("sent %d frames, want 3", len(bus.sent))
	}
}

func TestRunTransmitter_ReportsSendErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx := NewTransmitter(WithLoopDelay(0))
	bus := &fakeBus{sendErr: errBusOff}
	keypad := &scriptKeypad{keys: []byte("9#")}

	var sendErr error
	RunTransmitter(ctx, tx, keypad, bus, func(ev KeyEvent) {
		if ev.Err != nil {
			sendErr = ev.Err
			cancel()
		}
	})
	if !errors.Is(sendErr, errBusOff) {
		t.Errorf("expected bus error in event, got %v", sendErr)
	}
}

func TestRunReceiver_DrivesIndicator(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rx := NewReceiver(WithPollInterval(0))
	bus := &fakeBus{queue: []sentFrame{
		{id: DefaultFrameID, data: encodeB(0, "1")},
		{id: DefaultFrameID, data: []byte{0x01}},
		{id: DefaultFrameID, data: encodeB(7, "2")},
		{id: DefaultFrameID, data: encodeB(1, "3")},
		{id: DefaultFrameID, data: encodeB(2, "4")},
	}}

	var shown []Indicator
	sink := IndicatorFunc(func(ind Indicator) { shown = append(shown, ind) })

	stats := NewStatistics()
	err := RunReceiver(ctx, rx, bus, sink, func(ev FrameEvent) {
		stats.Update(ev)
		if len(bus.queue) == 0 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The undecodable frame does not touch the indicator
	want := []Indicator{IndicatorOK, IndicatorFault, IndicatorOK, IndicatorFault}
	if len(shown) != len(want) {
		t.Fatalf("indicator sequence = %v, want %v", shown, want)
	}
	for i := range want {
		if shown[i] != want[i] {
			t.Errorf("indicator sequence = %v, want %v", shown, want)
			break
		}
	}

	if stats.TotalFrames != 5 || stats.AcceptedFrames != 3 || stats.SequenceMismatches != 1 || stats.DecodeErrors != 1 {
		t.Errorf("unexpected statistics: %+v", stats)
	}
}

func TestTransmitterToReceiver_VariantMismatch(t *testing.T) {
	tx := NewTransmitter()
	rx := NewReceiver()
	bus := &fakeBus{}

	typeKeys(t, tx, bus, "1#")
	bus.loopback()

	id, data, ok := bus.PollFrame()
	if !ok {
		t.Fatal("no frame looped back")
	}
	ev := rx.Process(id, data)

	// The transmitter's first counter is 1 while the receiver expects 0
	if ev.Result.Outcome != OutcomeSequenceMismatch {
		t.Errorf("outcome = %s, want SEQUENCE_MISMATCH", ev.Result.Outcome)
	}
	if ev.Indicator != IndicatorFault {
		t.Errorf("indicator = %s, want FAULT", ev.Indicator)
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
