// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cliconfig

import (
	"fmt"
	"time"

	"github.com/Thermoquad/e2ecan/pkg/canwire"
	"github.com/Thermoquad/e2ecan/pkg/e2e"
	"github.com/rs/zerolog"
)

// Config holds CLI configuration for e2ecan.
type Config struct {
	// Serial SLCAN adapter
	Port string
	Baud int

	// WebSocket bridge
	URL         string
	Username    string
	NoSSLVerify bool

	Bitrate  int
	CANID    uint32
	LogLevel string

	TxVariant string
	RxVariant string

	LoopDelay    time.Duration
	PollInterval time.Duration
	CancelKey    bool

	FilterID   uint32
	FilterMask uint32
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Baud:         115200,
		Bitrate:      500000,
		CANID:        e2e.DefaultFrameID,
		LogLevel:     "info",
		TxVariant:    "a",
		RxVariant:    "b",
		LoopDelay:    100 * time.Millisecond,
		PollInterval: time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Port != "" && c.URL != "" {
		return fmt.Errorf("--port and --url are mutually exclusive")
	}
	if c.CANID > canwire.MaxStdID {
		return fmt.Errorf("can-id 0x%X exceeds 11-bit range", c.CANID)
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud rate must be positive")
	}
	if _, err := canwire.SLCANOpenCommands(c.Bitrate); err != nil {
		return err
	}
	if _, err := e2e.ParseChecksumVariant(c.TxVariant); err != nil {
		return fmt.Errorf("tx-variant: %w", err)
	}
	if _, err := e2e.ParseChecksumVariant(c.RxVariant); err != nil {
		return fmt.Errorf("rx-variant: %w", err)
	}
	if c.LoopDelay < 0 || c.PollInterval < 0 {
		return fmt.Errorf("intervals must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	return nil
}

// TxChecksum returns the parsed transmitter checksum variant.
func (c *Config) TxChecksum() e2e.ChecksumVariant {
	v, _ := e2e.ParseChecksumVariant(c.TxVariant)
	return v
}

// RxChecksum returns the parsed receiver checksum variant.
func (c *Config) RxChecksum() e2e.ChecksumVariant {
	v, _ := e2e.ParseChecksumVariant(c.RxVariant)
	return v
}

// Filter returns the receive acceptance filter.
func (c *Config) Filter() canwire.Filter {
	return canwire.Filter{ID: c.FilterID, Mask: c.FilterMask}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setUint32 sets a uint32 value if present and flag not changed.
func (s *configSetter) setUint32(flag string, value *uint32, dst *uint32) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBool sets a bool value if present and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", flag, value, err)
	}
	*dst = d
	return nil
}
