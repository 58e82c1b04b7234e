// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/Thermoquad/e2ecan/pkg/canwire"
	"github.com/Thermoquad/e2ecan/pkg/e2e"
	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var (
	discoveryTimeout   int
	discoveryListPorts bool
)

var discoveryCmd = &cobra.Command{
	Use:   "discovery",
	Short: "Discover active CAN identifiers or serial ports",
	Long: `Listen on the bus and report every CAN identifier seen.

Nodes on the E2E demo bus transmit only when a key is committed, so press #
on the keypad node while discovery is listening.

Modes:
  Bus (default):  listen for --timeout seconds and summarize identifiers.
  --list-ports:   list serial ports that may host an SLCAN adapter.

Examples:
  e2ecan discovery --port /dev/ttyACM0 --timeout 10
  e2ecan discovery --list-ports

Exit codes:
  0 - Discovery successful (at least one frame or port found)
  1 - Discovery failed (nothing found before timeout)
  2 - Connection error`,
	RunE: runDiscovery,
}

func init() {
	rootCmd.AddCommand(discoveryCmd)
	discoveryCmd.Flags().IntVar(&discoveryTimeout, "timeout", 5, "Timeout in seconds for discovery")
	discoveryCmd.Flags().BoolVar(&discoveryListPorts, "list-ports", false, "List serial ports instead of listening on the bus")
}

func runDiscovery(cmd *cobra.Command, args []string) error {
	if discoveryListPorts {
		return listSerialPorts()
	}

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

	fmt.Printf("e2ecan - Bus Discovery\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n\n", discoveryTimeout)

	frames := make(chan canwire.Frame, rxQueueSize)
	errChan := make(chan error, 1)

	reader, _ := newFrameCodec(kind, conn)
	go func() {
		for {
			f, err := reader.ReadFrame()
			if err != nil {
				if isFrameError(err) {
					continue
				}
				errChan <- err
				return
			}
			frames <- f
		}
	}()

	table := newIDTable(cfg.CANID)
	deadline := time.After(time.Duration(discoveryTimeout) * time.Second)
	for listening := true; listening; {
		select {
		case f := <-frames:
			if table.add(f) {
				fmt.Printf("New identifier: %s\n", formatID(f))
			}
		case err := <-errChan:
			fmt.Printf("READ FAILED: %v\n", err)
			os.Exit(2)
		case <-deadline:
			listening = false
		}
	}

	fmt.Printf("\n--- Discovery summary ---\n")
	fmt.Print(table.String())

	if table.len() == 0 {
		fmt.Printf("No frames seen. Check bitrate, wiring and node power.\n")
		os.Exit(1)
	}
	return nil
}

// listSerialPorts prints the serial ports known to the OS
func listSerialPorts() error {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list ports: %v\n", err)
		os.Exit(2)
	}
	if len(ports) == 0 {
		fmt.Printf("No serial ports found\n")
		os.Exit(1)
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

func formatID(f canwire.Frame) string {
	if f.Extended {
		return fmt.Sprintf("0x%08X (ext)", f.ID)
	}
	return fmt.Sprintf("0x%03X", f.ID)
}

// idEntry summarizes the frames seen on one identifier
type idEntry struct {
	frame    canwire.Frame
	count    int
	lastData []byte
}

// idTable collects identifiers seen during discovery
type idTable struct {
	e2eID   uint32
	entries map[string]*idEntry
}

func newIDTable(e2eID uint32) *idTable {
	return &idTable{e2eID: e2eID, entries: make(map[string]*idEntry)}
}

// add records f and reports whether its identifier is new
func (t *idTable) add(f canwire.Frame) bool {
	key := formatID(f)
	e, ok := t.entries[key]
	if !ok {
		e = &idEntry{frame: f}
		t.entries[key] = e
	}
	e.count++
	e.lastData = f.Data
	return !ok
}

func (t *idTable) len() int {
	return len(t.entries)
}

func (t *idTable) String() string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := fmt.Sprintf("Identifiers found: %d\n", len(keys))
	for _, k := range keys {
		e := t.entries[k]
		s += fmt.Sprintf("  %-16s frames=%-5d last=[%s]", k, e.count, e2e.FormatHex(e.lastData))
		if !e.frame.Extended && e.frame.ID == t.e2eID {
			s += "  (E2E)"
		}
		s += "\n"
	}
	return s
}
