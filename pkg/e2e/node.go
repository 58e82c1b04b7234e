// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import (
	"context"
	"time"
)

// KeyEvent is reported for every key handled by RunTransmitter
type KeyEvent struct {
	Key    byte
	Frame  *Frame // non-nil when the key committed a frame
	Buffer []byte // pending input after the key was handled
	State  TransmitterState
	Err    error
}

// FrameEvent is reported for every frame polled by RunReceiver
type FrameEvent struct {
	Time      time.Time
	ID        uint32
	Data      []byte
	Result    Result
	Indicator Indicator
	State     ReceiverState
	Err       error // decode failure; Result and Indicator are unset
}

// Process validates one polled frame and derives the indicator state
func (r *Receiver) Process(id uint32, data []byte) FrameEvent {
	ev := FrameEvent{Time: time.Now(), ID: id, Data: data}
	res, err := r.Validate(data)
	ev.State = r.State()
	if err != nil {
		ev.Err = err
		return ev
	}
	ev.Result = res
	ev.Indicator = IndicatorFor(res.Outcome, ev.State.ValidCount)
	return ev
}

// RunTransmitter runs the keypad superloop until ctx is cancelled.
// Keys not on the keypad are ignored. Send errors are logged and reported
// through handle; the frame is not retried.
func RunTransmitter(ctx context.Context, tx *Transmitter, keypad Keypad, bus Bus, handle func(KeyEvent)) error {
	log := tx.cfg.Logger
	for {
		if key, ok := keypad.ReadKey(); ok && IsKeypadKey(key) {
			frame, err := tx.HandleKey(key, bus)
			ev := KeyEvent{Key: key, Frame: frame, Buffer: tx.Buffer(), State: tx.State(), Err: err}
			switch {
			case err != nil:
				log.Error().Err(err).Msg("transmit failed")
			case frame != nil:
				log.Debug().
					Uint8("counter", frame.Counter).
					Hex("data", frame.Bytes()).
					Uint("sent", ev.State.SentCount).
					Msg("frame sent")
			}
			if handle != nil {
				handle(ev)
			}
		}

		if err := sleepContext(ctx, tx.cfg.LoopDelay); err != nil {
			return err
		}
	}
}

// RunReceiver runs the receive superloop until ctx is cancelled.
// Every polled frame is validated and drives sink; decode failures leave
// the indicator unchanged.
func RunReceiver(ctx context.Context, rx *Receiver, bus Bus, sink IndicatorSink, handle func(FrameEvent)) error {
	log := rx.cfg.Logger
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		id, data, ok := bus.PollFrame()
		if !ok {
			if err := sleepContext(ctx, rx.cfg.PollInterval); err != nil {
				return err
			}
			continue
		}

		ev := rx.Process(id, data)
		if ev.Err != nil {
			log.Warn().Err(ev.Err).Uint32("id", id).Hex("data", data).Msg("undecodable frame")
		} else {
			log.Debug().
				Uint32("id", id).
				Uint8("counter", ev.Result.Frame.Counter).
				Uint8("expected", ev.Result.Expected).
				Str("outcome", ev.Result.Outcome.String()).
				Str("indicator", ev.Indicator.String()).
				Msg("frame validated")
			if sink != nil {
				sink.SetIndicator(ev.Indicator)
			}
		}
		if handle != nil {
			handle(ev)
		}
	}
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
