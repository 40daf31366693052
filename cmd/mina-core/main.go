// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command mina-core drives the ledger-applier pipeline this module
// implements end to end: it opens the persistent verifier-index
// cache, applies a small fixed vector of transactions (a two-pass
// zkApp command, then a sequence of signed commands) against a fresh
// ledger, and runs consensus_take over a fixture pair of chain tips —
// a smoke-test harness for the whole applier stack, not a full node.
package main

import (
	"fmt"
	"os"

	"github.com/monetarium/mina-core/chainid"
	"github.com/monetarium/mina-core/consensus"
	"github.com/monetarium/mina-core/internal/mnlog"
	"github.com/monetarium/mina-core/ledger"
	"github.com/monetarium/mina-core/verifiercache"
)

func defaultConstraintConstants() consensus.ConstraintConstants {
	return consensus.ConstraintConstants{
		SubWindowsPerWindow:   consensus.SubWindowsPerWindow,
		BlockWindowDurationMs: 180_000,
		AccountCreationFee:    1,
	}
}

func defaultProtocolConstants() consensus.ProtocolConstants {
	return consensus.ProtocolConstants{
		K:                 290,
		SlotsPerEpoch:     7140,
		SlotsPerSubWindow: consensus.SlotsPerSubWindow,
		GracePeriodSlots:  consensus.GracePeriodEndDefault,
		Delta:             0,
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := mnlog.Init(cfg.logFile()); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := mnlog.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return fmt.Errorf("debuglevel: %w", err)
	}

	vc, err := verifiercache.Open(cfg.verifierCacheDir(), defaultLRUCapacity)
	if err != nil {
		return fmt.Errorf("verifier cache: %w", err)
	}
	defer vc.Close()

	var id chainid.ChainId
	switch cfg.Network {
	case "mainnet":
		id = chainid.MainnetChainId
	default:
		id = chainid.DevnetChainId
	}
	mnlog.Log.Infof("network %s chain id %s", cfg.Network, id.String())
	fmt.Printf("network=%s chain_id=%s\n", cfg.Network, id.String())

	consts, err := consensus.NewConstants(defaultConstraintConstants(), defaultProtocolConstants())
	if err != nil {
		return fmt.Errorf("consensus constants: %w", err)
	}

	l := ledger.Empty(20)
	if err := runZkAppDemo(l); err != nil {
		return fmt.Errorf("zkapp demo: %w", err)
	}
	if err := runSignedCommandDemo(consts.CC, l); err != nil {
		return fmt.Errorf("signed command demo: %w", err)
	}
	runConsensusTakeDemo(consts)

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mina-core: %v\n", err)
		os.Exit(1)
	}
}
