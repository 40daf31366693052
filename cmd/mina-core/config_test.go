// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigDerivesLogAndCacheDirsUnderDataDir(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Network != defaultNetwork {
		t.Fatalf("expected default network %q, got %q", defaultNetwork, cfg.Network)
	}
	if cfg.DebugLevel != defaultDebugLevel {
		t.Fatalf("expected default debug level %q, got %q", defaultDebugLevel, cfg.DebugLevel)
	}
	if !strings.HasPrefix(cfg.LogDir, cfg.DataDir) {
		t.Fatalf("expected log dir %q to live under data dir %q", cfg.LogDir, cfg.DataDir)
	}
}

func TestConfigLogFileJoinsLogDirAndFilename(t *testing.T) {
	cfg := config{LogDir: filepath.Join("some", "dir")}
	want := filepath.Join("some", "dir", defaultLogFilename)
	if got := cfg.logFile(); got != want {
		t.Fatalf("logFile() = %q, want %q", got, want)
	}
}

func TestConfigVerifierCacheDirJoinsDataDirAndSubdir(t *testing.T) {
	cfg := config{DataDir: filepath.Join("some", "dir")}
	want := filepath.Join("some", "dir", defaultVerifierSub)
	if got := cfg.verifierCacheDir(); got != want {
		t.Fatalf("verifierCacheDir() = %q, want %q", got, want)
	}
}

func TestValidateNetworkAcceptsKnownNetworks(t *testing.T) {
	for _, network := range []string{"devnet", "mainnet"} {
		if err := validateNetwork(network); err != nil {
			t.Fatalf("validateNetwork(%q): %v", network, err)
		}
	}
}

func TestValidateNetworkRejectsUnknownNetwork(t *testing.T) {
	if err := validateNetwork("testnet"); err == nil {
		t.Fatal("expected an error for an unknown network")
	}
}
