// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Thermoquad/e2ecan/pkg/canwire"
	"github.com/Thermoquad/e2ecan/pkg/e2e"
	"github.com/spf13/cobra"
)

var transmitCmd = &cobra.Command{
	Use:   "transmit",
	Short: "Run the keypad node",
	Long: `Run the keypad transmitter node with the terminal as the keypad.

Keys 0-9, A-D, * and # map onto the 4x4 keypad matrix (a-d and Enter work too).
Up to 4 characters are buffered and # sends them as an E2E frame. The *
key is sent like any other character unless --cancel-key makes it clear the
buffer. The sequence counter advances for the first two frames only.

Press Ctrl+C to exit.`,
	RunE: runTransmit,
}

func init() {
	rootCmd.AddCommand(transmitCmd)
	transmitCmd.Flags().StringVar(&cfg.TxVariant, "tx-variant", cfg.TxVariant, "Checksum variant (a = nibble complement, b = nibble sum)")
	transmitCmd.Flags().DurationVar(&cfg.LoopDelay, "loop-delay", cfg.LoopDelay, "Delay between keypad scans")
	transmitCmd.Flags().BoolVar(&cfg.CancelKey, "cancel-key", cfg.CancelKey, "Use * to clear the input instead of sending it")
}

func runTransmit(cmd *cobra.Command, args []string) error {
	conn, kind, connInfo, err := OpenConnection(&cfg)
	if err != nil {
		return err
	}

	bus, err := newLinkBus(conn, kind, cfg.Bitrate, canwire.Filter{}, logger)
	if err != nil {
		conn.Close()
		return err
	}
	defer bus.Close()

	keypad, err := openTerminalKeypad()
	if err != nil {
		return err
	}
	defer keypad.Restore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-keypad.Quit():
		case <-bus.Done():
		case <-ctx.Done():
		}
		cancel()
	}()

	tx := e2e.NewTransmitter(
		e2e.WithChecksumVariant(cfg.TxChecksum()),
		e2e.WithFrameID(cfg.CANID),
		e2e.WithLoopDelay(cfg.LoopDelay),
		e2e.WithCancelKey(cfg.CancelKey),
		e2e.WithLogger(logger),
	)

	// Raw mode: lines need an explicit carriage return
	fmt.Printf("e2ecan - Keypad Node\r\n")
	fmt.Printf("Connection: %s\r\n", connInfo)
	fmt.Printf("CAN ID: 0x%03X  Checksum: %s\r\n", cfg.CANID, tx.Config().Variant.Description())
	fmt.Printf("Press Ctrl+C to exit\r\n\r\n")

	err = e2e.RunTransmitter(ctx, tx, keypad, bus, func(ev e2e.KeyEvent) {
		fmt.Print(strings.ReplaceAll(formatKeyEvent(cfg.CANID, ev), "\n", "\r\n"))
	})
	if errors.Is(err, context.Canceled) {
		return bus.Err()
	}
	return err
}

// formatKeyEvent describes the effect of one key press
func formatKeyEvent(id uint32, ev e2e.KeyEvent) string {
	switch {
	case ev.Err != nil && ev.Frame != nil:
		return fmt.Sprintf("SEND FAILED %s: %v\n", e2e.FormatFrame(id, *ev.Frame), ev.Err)
	case ev.Err != nil:
		return fmt.Sprintf("ERROR: %v\n", ev.Err)
	case ev.Frame != nil:
		return fmt.Sprintf("SENT %s [%s] sent=%d\n",
			e2e.FormatFrame(id, *ev.Frame), e2e.FormatHex(ev.Frame.Bytes()), ev.State.SentCount)
	case ev.Key == e2e.CancelKey && len(ev.Buffer) == 0:
		return "input cleared\n"
	default:
		return fmt.Sprintf("input: %-4s\n", string(ev.Buffer))
	}
}
