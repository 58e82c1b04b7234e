// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Thermoquad/e2ecan/pkg/canwire"
	"github.com/Thermoquad/e2ecan/pkg/e2e"
	"github.com/spf13/cobra"
)

var rawLogCmd = &cobra.Command{
	Use:   "raw_log",
	Short: "Display raw frame log in human-readable format",
	Long: `Continuously display CAN frames as they arrive.

Frames carrying the E2E identifier (--can-id) are decoded into counter,
payload and checksum, and checked against both checksum variants. Other
frames are shown as raw data.

Supports both serial and WebSocket connections.`,
	RunE: runRawLog,
}

func init() {
	rootCmd.AddCommand(rawLogCmd)
}

func runRawLog(cmd *cobra.Command, args []string) error {
	conn, kind, connInfo, err := OpenConnection(&cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if kind == LinkSerial {
		if err := openSLCANChannel(conn, cfg.Bitrate); err != nil {
			return err
		}
	}

	fmt.Printf("e2ecan - Raw Frame Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	reader, _ := newFrameCodec(kind, conn)
	for {
		f, err := reader.ReadFrame()
		if err != nil {
			if isFrameError(err) {
				fmt.Printf("[ERROR] %v\n", err)
				continue
			}
			// A read error usually means the link is gone
			if errors.Is(err, ErrConnectionClosed) || errors.Is(err, io.EOF) {
				logger.Info().Msg("connection closed")
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}
		fmt.Print(formatRawFrame(time.Now(), f, cfg.CANID))
	}
}

// formatRawFrame renders one bus frame, adding the E2E view for frames on e2eID
func formatRawFrame(ts time.Time, f canwire.Frame, e2eID uint32) string {
	idFmt := "0x%03X"
	if f.Extended {
		idFmt = "0x%08X"
	}
	line := fmt.Sprintf("[%s] id="+idFmt+" dlc=%d data=[%s]\n",
		ts.Format("15:04:05.000"), f.ID, f.DLC(), e2e.FormatHex(f.Data))

	if f.Extended || f.ID != e2eID {
		return line
	}

	frame, err := e2e.DecodeFrame(f.Data)
	if err != nil {
		return line + fmt.Sprintf("  E2E: %v\n", err)
	}
	return line + fmt.Sprintf("  E2E: ctr=%d payload=%s chk=0x%02X  %s\n",
		frame.Counter, e2e.FormatPayload(frame.Payload), frame.Checksum, e2e.FormatVariantCheck(frame))
}
