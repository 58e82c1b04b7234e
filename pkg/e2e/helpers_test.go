// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import "errors"

// sentFrame is a frame captured by fakeBus
type sentFrame struct {
	id   uint32
	data []byte
}

// fakeBus records sent frames and serves queued frames to PollFrame
type fakeBus struct {
	sent    []sentFrame
	queue   []sentFrame
	sendErr error
}

func (b *fakeBus) SendFrame(id uint32, data []byte) error {
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, sentFrame{id: id, data: append([]byte(nil), data...)})
	return nil
}

func (b *fakeBus) PollFrame() (uint32, []byte, bool) {
	if len(b.queue) == 0 {
		return 0, nil, false
	}
	f := b.queue[0]
	b.queue = b.queue[1:]
	return f.id, f.data, true
}

// loopback hands every sent frame straight back out of PollFrame
func (b *fakeBus) loopback() {
	b.queue = append(b.queue, b.sent...)
	b.sent = nil
}

// scriptKeypad replays a fixed key sequence
type scriptKeypad struct {
	keys []byte
}

func (k *scriptKeypad) ReadKey() (byte, bool) {
	if len(k.keys) == 0 {
		return 0, false
	}
	key := k.keys[0]
	k.keys = k.keys[1:]
	return key, true
}

var errBusOff = errors.New("bus off")

// encodeB builds a variant B frame for receiver tests
func encodeB(counter uint8, payload string) []byte {
	f, err := EncodeFrame(counter, []byte(payload), ChecksumNibbleSum)
	if err != nil {
		panic(err)
	}
	return f.Bytes()
}
