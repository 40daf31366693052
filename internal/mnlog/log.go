// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mnlog wires up this module's subsystem loggers the way
// dcrd's own log.go does: one rotating-file backend, one slog.Logger
// per subsystem tag, and a SetLogLevel(s)/ParseAndSetDebugLevels pair
// cmd/mina-core's config flags drive directly.
package mnlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"

	"github.com/monetarium/mina-core/callforest"
	"github.com/monetarium/mina-core/usercommand"
	"github.com/monetarium/mina-core/verifiercache"
	"github.com/monetarium/mina-core/zkapp"
)

// logRotator is the rotating file the backend writes to once Init has
// run. Logging before Init is a silent no-op, matching every
// subsystem's slog.Disabled zero value.
var logRotator *rotator.Rotator

// backend is the shared slog.Backend every subsystem logger is drawn
// from.
var backend = slog.NewBackend(logWriter{})

// subsystem tags, one per package this module registers a logger for.
const (
	tagZkap = "ZKAP"
	tagUcmd = "UCMD"
	tagCalf = "CALF"
	tagVrfc = "VRFC"
	tagMnlg = "MNLG"
)

var (
	zkapLog = backend.Logger(tagZkap)
	ucmdLog = backend.Logger(tagUcmd)
	calfLog = backend.Logger(tagCalf)
	vrfcLog = backend.Logger(tagVrfc)

	// Log is this package's own logger, for messages mnlog itself emits.
	Log = backend.Logger(tagMnlg)
)

// subsystemLoggers maps each tag to its logger, for SetLogLevel(s) and
// subsystem validation.
var subsystemLoggers = map[string]slog.Logger{
	tagZkap: zkapLog,
	tagUcmd: ucmdLog,
	tagCalf: calfLog,
	tagVrfc: vrfcLog,
	tagMnlg: Log,
}

// logWriter fans log lines out to standard output and, once Init has
// run, the rotating log file.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// Init opens logFile for rotating writes (10 MiB, i.e. 10*1024 KB, per file, 3 kept
// backups, matching the reference rotator configuration this is
// grounded on) and registers every subsystem logger with its owning
// package via UseLogger, so package-level logging becomes live.
func Init(logFile string) error {
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("mnlog: create log directory %s: %w", logDir, err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("mnlog: open log rotator: %w", err)
	}
	logRotator = r

	zkapp.UseLogger(zkapLog)
	usercommand.UseLogger(ucmdLog)
	callforest.UseLogger(calfLog)
	verifiercache.UseLogger(vrfcLog)

	return nil
}

// SetLogLevel sets logLevel on the named subsystem. Unknown subsystems
// are ignored, matching dcrd's own permissive behavior for forward
// compatibility with config files naming subsystems an older build
// doesn't have.
func SetLogLevel(subsystemTag, logLevel string) {
	logger, ok := subsystemLoggers[subsystemTag]
	if !ok {
		return
	}
	level, ok := slog.LevelFromString(logLevel)
	if !ok {
		return
	}
	logger.SetLevel(level)
}

// SetLogLevels applies logLevel to every registered subsystem.
func SetLogLevels(logLevel string) {
	for tag := range subsystemLoggers {
		SetLogLevel(tag, logLevel)
	}
}

// SupportedSubsystems returns the sorted list of valid subsystem tags,
// for usage text and config validation.
func SupportedSubsystems() []string {
	tags := make([]string, 0, len(subsystemLoggers))
	for tag := range subsystemLoggers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ParseAndSetDebugLevels parses a debugLevel string in either of two
// forms accepted by cmd/mina-core's --debuglevel flag: a bare level
// ("info") applied to every subsystem, or a comma-separated list of
// TAG=level pairs.
func ParseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		if _, ok := slog.LevelFromString(debugLevel); !ok {
			return fmt.Errorf("mnlog: invalid debug level %q", debugLevel)
		}
		SetLogLevels(debugLevel)
		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.SplitN(pair, "=", 2)
		if len(fields) != 2 {
			return fmt.Errorf("mnlog: invalid subsystem/level pair %q", pair)
		}
		tag, level := fields[0], fields[1]
		if _, ok := subsystemLoggers[tag]; !ok {
			return fmt.Errorf("mnlog: unknown subsystem %q (supported: %s)", tag, strings.Join(SupportedSubsystems(), ", "))
		}
		if _, ok := slog.LevelFromString(level); !ok {
			return fmt.Errorf("mnlog: invalid debug level %q for subsystem %q", level, tag)
		}
		SetLogLevel(tag, level)
	}
	return nil
}
