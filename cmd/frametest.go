// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/Thermoquad/e2ecan/pkg/e2e"
	"github.com/spf13/cobra"
)

var frameTestTimeout int

var frameTestCmd = &cobra.Command{
	Use:   "frame_test",
	Short: "Test connection by waiting for a well-formed E2E frame",
	Long: `Wait for a well-formed E2E frame on the connection until timeout.

This command connects to an SLCAN adapter or WebSocket bridge and waits for a
frame with the E2E identifier (--can-id) that passes the checksum of either
variant. Other frames and malformed lines are skipped.

Exit codes:
  0 - Frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Connection error`,
	RunE: runFrameTest,
}

func init() {
	rootCmd.AddCommand(frameTestCmd)
	frameTestCmd.Flags().IntVar(&frameTestTimeout, "timeout", 10, "Timeout in seconds to wait for a frame")
}

func runFrameTest(cmd *cobra.Command, args []string) error {
	conn, kind, connInfo, err := OpenConnection(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	if kind == LinkSerial {
		if err := openSLCANChannel(conn, cfg.Bitrate); err != nil {
			fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
			os.Exit(2)
		}
	}

	fmt.Printf("e2ecan - Frame Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", frameTestTimeout)
	fmt.Printf("Waiting for E2E frame on 0x%03X...\n\n", cfg.CANID)

	frameChan := make(chan e2e.Frame, 1)
	errChan := make(chan error, 1)

	reader, _ := newFrameCodec(kind, conn)
	go func() {
		skipped := 0
		for {
			f, err := reader.ReadFrame()
			if err != nil {
				if isFrameError(err) {
					skipped++
					continue
				}
				errChan <- err
				return
			}
			if f.Extended || f.ID != cfg.CANID {
				skipped++
				continue
			}

			frame, err := e2e.DecodeFrame(f.Data)
			if err != nil || !(frame.Verify(e2e.ChecksumNibbleComplement) || frame.Verify(e2e.ChecksumNibbleSum)) {
				skipped++
				continue
			}
			if skipped > 0 {
				fmt.Printf("(skipped %d frames before a valid one)\n", skipped)
			}
			frameChan <- frame
			return
		}
	}()

	select {
	case frame := <-frameChan:
		fmt.Printf("SUCCESS: Received valid frame\n")
		fmt.Printf("  Counter: %d\n", frame.Counter)
		fmt.Printf("  Payload: %s\n", e2e.FormatPayload(frame.Payload))
		fmt.Printf("  Length: %d bytes\n", frame.Len())
		fmt.Printf("  Checksum: 0x%02X (%s)\n", frame.Checksum, e2e.FormatVariantCheck(frame))
		os.Exit(0)

	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(2)

	case <-time.After(time.Duration(frameTestTimeout) * time.Second):
		fmt.Fprintf(os.Stderr, "TIMEOUT: No valid frame received within %d seconds\n", frameTestTimeout)
		os.Exit(1)
	}

	return nil
}
