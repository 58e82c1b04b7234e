// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package e2e

import (
	"time"

	"github.com/rs/zerolog"
)

// Config holds node configuration shared by Transmitter and Receiver
type Config struct {
	// Variant is the checksum algorithm used to build or verify frames
	Variant ChecksumVariant

	// FrameID is the CAN identifier used for transmitted frames
	FrameID uint32

	// LoopDelay is the pause after each transmitter loop iteration
	LoopDelay time.Duration

	// PollInterval is the pause after an empty receiver poll
	PollInterval time.Duration

	// CancelKey makes the transmitter treat '*' as "clear input" instead of
	// an ordinary character
	CancelKey bool

	// Logger receives diagnostic events from the node loops
	Logger zerolog.Logger
}

// defaultConfig returns the settings common to both nodes
func defaultConfig() Config {
	return Config{
		FrameID:      DefaultFrameID,
		LoopDelay:    100 * time.Millisecond,
		PollInterval: time.Millisecond,
		Logger:       zerolog.Nop(),
	}
}

// Option is a functional option for configuring a node
type Option func(*Config)

// WithChecksumVariant overrides the node's default checksum variant
func WithChecksumVariant(v ChecksumVariant) Option {
	return func(c *Config) {
		c.Variant = v
	}
}

// WithFrameID sets the CAN identifier for transmitted frames
func WithFrameID(id uint32) Option {
	return func(c *Config) {
		c.FrameID = id
	}
}

// WithLoopDelay sets the transmitter's per-iteration delay
func WithLoopDelay(d time.Duration) Option {
	return func(c *Config) {
		c.LoopDelay = d
	}
}

// WithPollInterval sets how long the receiver sleeps when no frame is queued
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		c.PollInterval = d
	}
}

// WithCancelKey enables or disables the '*' cancel key
func WithCancelKey(enabled bool) Option {
	return func(c *Config) {
		c.CancelKey = enabled
	}
}

// WithLogger sets the logger used by the node loops.
//
// Example:
//
//	rx := e2e.NewReceiver(e2e.WithLogger(zerolog.New(os.Stderr)))
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
