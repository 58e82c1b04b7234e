// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Thermoquad/e2ecan/pkg/e2e"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	showAll       bool
	statsInterval int
	useTUI        bool
)

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Run the indicator node",
	Long: `Run the LED indicator receiver node.

Every frame passing the acceptance filter is checked for the expected sequence
counter first and then for its checksum. The indicator shows OK for the first
two accepted frames and FAULT for any mismatch; the valid-frame count is never
reset, so from the third accepted frame on the indicator stays FAULT.

By default, only rejected frames are printed in text mode. Use --show-all to
display accepted frames too. Statistics are printed every --stats-interval.`,
	RunE: runReceive,
}

func init() {
	rootCmd.AddCommand(receiveCmd)
	receiveCmd.Flags().StringVar(&cfg.RxVariant, "rx-variant", cfg.RxVariant, "Checksum variant (a = nibble complement, b = nibble sum)")
	receiveCmd.Flags().DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Idle delay between receive polls")
	receiveCmd.Flags().Uint32Var(&cfg.FilterID, "filter-id", cfg.FilterID, "Acceptance filter identifier")
	receiveCmd.Flags().Uint32Var(&cfg.FilterMask, "filter-mask", cfg.FilterMask, "Acceptance filter mask (0 accepts all)")
	receiveCmd.Flags().BoolVar(&showAll, "show-all", false, "Show accepted frames (not just rejected ones)")
	receiveCmd.Flags().IntVar(&statsInterval, "stats-interval", 10, "Statistics interval in seconds (text mode)")
	receiveCmd.Flags().BoolVar(&useTUI, "tui", false, "Use terminal UI")
}

func newReceiver() *e2e.Receiver {
	return e2e.NewReceiver(
		e2e.WithChecksumVariant(cfg.RxChecksum()),
		e2e.WithFrameID(cfg.CANID),
		e2e.WithPollInterval(cfg.PollInterval),
		e2e.WithLogger(logger),
	)
}

func runReceive(cmd *cobra.Command, args []string) error {
	conn, kind, connInfo, err := OpenConnection(&cfg)
	if err != nil {
		return err
	}

	bus, err := newLinkBus(conn, kind, cfg.Bitrate, cfg.Filter(), logger)
	if err != nil {
		conn.Close()
		return err
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-bus.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	rx := newReceiver()
	if useTUI {
		return runReceiveTUI(ctx, cancel, rx, bus, connInfo)
	}
	return runReceiveText(ctx, rx, bus, connInfo)
}

// runReceiveText prints frames and periodic statistics to stdout
func runReceiveText(ctx context.Context, rx *e2e.Receiver, bus *linkBus, connInfo string) error {
	fmt.Printf("e2ecan - Indicator Node\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Checksum: %s\n", rx.Config().Variant.Description())
	fmt.Printf("Statistics interval: %d seconds\n", statsInterval)
	if showAll {
		fmt.Printf("Mode: All frames\n")
	} else {
		fmt.Printf("Mode: Rejected frames only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	var mu sync.Mutex
	stats := e2e.NewStatistics()

	if statsInterval > 0 {
		ticker := time.NewTicker(time.Duration(statsInterval) * time.Second)
		defer ticker.Stop()
		go func() {
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					fmt.Printf("\n%s\n", stats.String())
					mu.Unlock()
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	sink := &consoleIndicator{w: os.Stdout, mu: &mu}
	err := e2e.RunReceiver(ctx, rx, bus, sink, func(ev e2e.FrameEvent) {
		mu.Lock()
		defer mu.Unlock()
		stats.Update(ev)
		if showAll || ev.Err != nil || ev.Result.Outcome != e2e.OutcomeAccepted {
			fmt.Print(e2e.FormatFrameEvent(ev))
		}
	})

	mu.Lock()
	fmt.Printf("\n%s", stats.String())
	mu.Unlock()

	if errors.Is(err, context.Canceled) {
		return bus.Err()
	}
	return err
}

// runReceiveTUI runs the receive loop behind the dashboard
func runReceiveTUI(ctx context.Context, cancel context.CancelFunc, rx *e2e.Receiver, bus *linkBus, connInfo string) error {
	m := initialModel(connInfo, rx.Config().Variant, showAll)
	p := tea.NewProgram(m, tea.WithAltScreen())

	loopDone := make(chan error, 1)
	go func() {
		err := e2e.RunReceiver(ctx, rx, bus, nil, func(ev e2e.FrameEvent) {
			p.Send(frameEventMsg(ev))
		})
		if linkErr := bus.Err(); linkErr != nil {
			p.Send(linkErrMsg{err: linkErr})
		}
		loopDone <- err
	}()

	_, err := p.Run()
	cancel()
	<-loopDone
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return bus.Err()
}
