// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Port         string  `toml:"port"`
	Baud         int     `toml:"baud"`
	URL          string  `toml:"url"`
	Username     string  `toml:"username"`
	NoSSLVerify  *bool   `toml:"no_ssl_verify"`
	Bitrate      int     `toml:"bitrate"`
	CANID        *uint32 `toml:"can_id"`
	LogLevel     string  `toml:"log_level"`
	TxVariant    string  `toml:"tx_variant"`
	RxVariant    string  `toml:"rx_variant"`
	LoopDelay    string  `toml:"loop_delay"`
	PollInterval string  `toml:"poll_interval"`
	CancelKey    *bool   `toml:"cancel_key"`
	FilterID     *uint32 `toml:"filter_id"`
	FilterMask   *uint32 `toml:"filter_mask"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.e2ecan/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".e2ecan", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("port", fc.Port, &cfg.Port)
	s.setString("url", fc.URL, &cfg.URL)
	s.setString("username", fc.Username, &cfg.Username)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("tx-variant", fc.TxVariant, &cfg.TxVariant)
	s.setString("rx-variant", fc.RxVariant, &cfg.RxVariant)

	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setInt("bitrate", fc.Bitrate, &cfg.Bitrate)

	s.setUint32("can-id", fc.CANID, &cfg.CANID)
	s.setUint32("filter-id", fc.FilterID, &cfg.FilterID)
	s.setUint32("filter-mask", fc.FilterMask, &cfg.FilterMask)

	s.setBool("no-ssl-verify", fc.NoSSLVerify, &cfg.NoSSLVerify)
	s.setBool("cancel-key", fc.CancelKey, &cfg.CancelKey)

	if err := s.setDuration("loop-delay", fc.LoopDelay, &cfg.LoopDelay); err != nil {
		return err
	}
	if err := s.setDuration("poll-interval", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
