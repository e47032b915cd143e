// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/GermanBionicSystems/usbrelay/sainsmart"
	"gopkg.in/yaml.v3"
)

// Config is the content of the optional configuration file.
//
//	device: "s:0x0403:0x6001:A50285BI"
//	driver: usbfs
//	channels: 4
//	log_level: info
//	labels:
//	  pump: 0
//	  heater: 3
type Config struct {
	Device   string         `yaml:"device"`
	Driver   string         `yaml:"driver"`
	Channels int            `yaml:"channels"`
	LogLevel string         `yaml:"log_level"`
	Labels   map[string]int `yaml:"labels"`
}

func defaultConfig() *Config {
	return &Config{
		Device:   sainsmart.DefaultDevice,
		Channels: sainsmart.NumChannels,
		LogLevel: "warn",
	}
}

// defaultConfigPath returns the per-user configuration file, or "" when the
// user has none.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "usbrelay", "config.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// loadConfig reads path if not empty, then applies the environment
// overrides.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("USBRELAY_DEVICE"); v != "" {
		c.Device = v
	}
	if v := os.Getenv("USBRELAY_DRIVER"); v != "" {
		c.Driver = v
	}
	if v := os.Getenv("USBRELAY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("USBRELAY_CHANNELS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("USBRELAY_CHANNELS: %w", err)
		}
		c.Channels = n
	}
	return nil
}

var errNoDevice = errors.New("device must not be empty")

func (c *Config) validate() error {
	if c.Device == "" {
		return errNoDevice
	}
	if c.Channels < 1 || c.Channels > 8 {
		return fmt.Errorf("channels must be between 1 and 8, got %d", c.Channels)
	}
	for name, ch := range c.Labels {
		if _, err := strconv.Atoi(name); err == nil {
			return fmt.Errorf("label %q must not be a number", name)
		}
		if ch < 0 || ch >= c.Channels {
			return fmt.Errorf("label %q: invalid channel %d", name, ch)
		}
	}
	return nil
}
