// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
)

const (
	defaultNetwork     = "devnet"
	defaultDebugLevel  = "info"
	defaultLogFilename = "mina-core.log"
	defaultVerifierSub = "verifiercache"
	defaultLRUCapacity = 64
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".mina-core")
}

// config holds every flag this driver accepts. It is intentionally
// small: this is a demonstration driver for the applier pipeline, not
// a full node, so there is no peer-to-peer or RPC configuration here.
type config struct {
	DataDir    string `long:"datadir" description:"Directory to store the verifier-index cache in"`
	LogDir     string `long:"logdir" description:"Directory to write the rotating log file to"`
	DebugLevel string `long:"debuglevel" description:"Logging level: a bare level (trace/debug/info/warn/error/critical) or a comma-separated TAG=level list"`
	Network    string `long:"network" description:"Network whose chain id to report: devnet or mainnet"`
}

func defaultConfig() config {
	dataDir := defaultDataDir()
	return config{
		DataDir:    dataDir,
		LogDir:     filepath.Join(dataDir, "logs"),
		DebugLevel: defaultDebugLevel,
		Network:    defaultNetwork,
	}
}

// loadConfig parses command-line flags over defaultConfig's values.
func loadConfig() (*config, error) {
	cfg := defaultConfig()
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if err := validateNetwork(cfg.Network); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateNetwork reports whether network names a chain id this build
// knows about.
func validateNetwork(network string) error {
	switch network {
	case "devnet", "mainnet":
		return nil
	default:
		return fmt.Errorf("unknown --network %q (want devnet or mainnet)", network)
	}
}

func (c config) logFile() string {
	return filepath.Join(c.LogDir, defaultLogFilename)
}

func (c config) verifierCacheDir() string {
	return filepath.Join(c.DataDir, defaultVerifierSub)
}
