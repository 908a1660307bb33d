// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port       string
	AppVersion string
	Testing    bool

	// MaxMessageBytes caps the size of an uploaded message.
	MaxMessageBytes int64

	// Profile holds the operator's scan profile: whitelists and the
	// gateway relay names used for entry-point tracking.
	Profile ScanProfile
}

// ScanProfile is the operator-supplied tuning file. All fields are
// optional; an empty profile disables whitelisting and gateway
// tracking.
type ScanProfile struct {
	WhitelistIPs []string `yaml:"whitelist_ips"`
	WhitelistFor []string `yaml:"whitelist_for"`
	GatewayHosts []string `yaml:"gateway_hosts"`
}

const defaultMaxMessageBytes = 50 << 20

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	maxBytes := int64(defaultMaxMessageBytes)
	if v := os.Getenv("MAX_MESSAGE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_MESSAGE_BYTES must be a positive integer, got %q", v)
		}
		maxBytes = n
	}

	var profile ScanProfile
	if path := os.Getenv("SCAN_PROFILE"); path != "" {
		p, err := LoadProfile(path)
		if err != nil {
			return nil, err
		}
		profile = *p
	}

	return &Config{
		Port:            port,
		AppVersion:      "26.19.38",
		Testing:         false,
		MaxMessageBytes: maxBytes,
		Profile:         profile,
	}, nil
}

// LoadProfile reads a YAML scan profile from disk.
func LoadProfile(path string) (*ScanProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scan profile: %w", err)
	}
	var p ScanProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing scan profile %s: %w", path, err)
	}
	return &p, nil
}
