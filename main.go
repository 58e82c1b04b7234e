// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// e2ecan - E2E-protected CAN keypad and indicator nodes
//
// A CLI tool that runs the keypad transmitter and LED indicator receiver
// of the E2E CAN demo over an SLCAN adapter or WebSocket bridge.

package main

import (
	"os"

	"github.com/Thermoquad/e2ecan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
