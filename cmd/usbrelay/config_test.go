// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/usbrelay/sainsmart"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"USBRELAY_DEVICE", "USBRELAY_DRIVER", "USBRELAY_LOG_LEVEL", "USBRELAY_CHANNELS"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device != sainsmart.DefaultDevice || cfg.Channels != sainsmart.NumChannels || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
	if err := cfg.validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "config.yaml")
	content := `device: "s:0x0403:0x6001:A50285BI"
driver: usbfs
log_level: debug
labels:
  pump: 0
  heater: 3
`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device != "s:0x0403:0x6001:A50285BI" || cfg.Driver != "usbfs" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %#v", cfg)
	}
	if cfg.Channels != sainsmart.NumChannels {
		t.Fatalf("channels default lost: %d", cfg.Channels)
	}
	if cfg.Labels["pump"] != 0 || cfg.Labels["heater"] != 3 {
		t.Fatalf("unexpected labels %v", cfg.Labels)
	}
	if err := cfg.validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("USBRELAY_DEVICE", "d:001/004")
	t.Setenv("USBRELAY_DRIVER", "libftdi")
	t.Setenv("USBRELAY_CHANNELS", "8")
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Device != "d:001/004" || cfg.Driver != "libftdi" || cfg.Channels != 8 {
		t.Fatalf("environment not applied: %#v", cfg)
	}
	t.Setenv("USBRELAY_CHANNELS", "four")
	if _, err := loadConfig(""); err == nil {
		t.Fatal("expected error for a non numeric USBRELAY_CHANNELS")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	clearEnv(t)
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("labels: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(p); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestConfigValidate(t *testing.T) {
	data := []Config{
		{Device: "", Channels: 4},
		{Device: sainsmart.DefaultDevice, Channels: 0},
		{Device: sainsmart.DefaultDevice, Channels: 9},
		{Device: sainsmart.DefaultDevice, Channels: 4, Labels: map[string]int{"pump": 4}},
		{Device: sainsmart.DefaultDevice, Channels: 4, Labels: map[string]int{"pump": -1}},
		{Device: sainsmart.DefaultDevice, Channels: 4, Labels: map[string]int{"2": 1}},
	}
	for _, cfg := range data {
		if err := cfg.validate(); err == nil {
			t.Errorf("validate(%#v) should fail", cfg)
		}
	}
}
