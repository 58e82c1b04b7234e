// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/Thermoquad/e2ecan/internal/cliconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfg        = cliconfig.DefaultConfig()
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "e2ecan",
	Short: "E2E-protected CAN keypad and indicator nodes",
	Long: `e2ecan - Keypad transmitter and indicator receiver for E2E-protected CAN frames.

Every frame carries a sequence counter and a 4-bit block checksum. The transmit
node turns keypad input into frames; the receive node validates them and drives
a two-state OK/FAULT indicator.

Connection modes:
  Serial:    --port /dev/ttyACM0 [--baud 115200] [--bitrate 500000]  (SLCAN adapter)
  WebSocket: --url ws://host/path [--username user]               (CBOR frame bridge)

Settings may also be read from a TOML file (--config, default
~/.e2ecan/config.toml). Flags given on the command line always win.

For WebSocket authentication, the password is read from the E2ECAN_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()

	// Serial connection flags
	flags.StringVarP(&cfg.Port, "port", "p", cfg.Port, "Serial port of the SLCAN adapter")
	flags.IntVarP(&cfg.Baud, "baud", "b", cfg.Baud, "Baud rate (serial only)")
	flags.IntVar(&cfg.Bitrate, "bitrate", cfg.Bitrate, "CAN bitrate for the SLCAN channel")

	// WebSocket connection flags
	flags.StringVarP(&cfg.URL, "url", "u", cfg.URL, "WebSocket URL (ws:// or wss://)")
	flags.StringVar(&cfg.Username, "username", cfg.Username, "Username for HTTP Basic auth")
	flags.BoolVar(&cfg.NoSSLVerify, "no-ssl-verify", cfg.NoSSLVerify, "Skip TLS certificate verification (wss:// only)")

	flags.Uint32Var(&cfg.CANID, "can-id", cfg.CANID, "Standard CAN identifier for E2E frames")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&configPath, "config", "", "Path to TOML config file")
}

// loadConfig merges the config file under explicitly set flags, validates
// the result and sets up logging
func loadConfig(cmd *cobra.Command, args []string) error {
	changed := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})

	path := configPath
	if path == "" {
		path = cliconfig.DefaultConfigPath()
		if path != "" && !cliconfig.FileExists(path) {
			path = ""
		}
	}
	if path != "" {
		fc, err := cliconfig.LoadFileConfig(path)
		if err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
		if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogger(cfg.LogLevel)
	if path != "" {
		logger.Debug().Str("path", path).Msg("loaded config file")
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
