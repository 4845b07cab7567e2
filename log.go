/*
 * log.go, part of govasp.
 *
 * Copyright 2026 Raul Mera <rmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package vasp

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	//EnvLogLevel is the environment variable read for the initial log level.
	EnvLogLevel = "VASPY_LOG_LEVEL"
	//EnvDisableLogs disables all logging if set to "1".
	EnvDisableLogs = "VASPY_DISABLE_LOGS"
)

var (
	logOnce  sync.Once
	logMu    sync.Mutex
	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger   *zap.SugaredLogger
)

// newLogger builds the default logger: console encoding on stderr,
// " LEVEL | message key=value".
func newLogger() *zap.Logger {
	if os.Getenv(EnvDisableLogs) == "1" {
		return zap.NewNop()
	}
	if l := os.Getenv(EnvLogLevel); l != "" {
		if lvl, err := zapcore.ParseLevel(l); err == nil {
			logLevel.SetLevel(lvl)
		}
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.NameKey = ""
	enc.ConsoleSeparator = " | "
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), logLevel)
	return zap.New(core)
}

// Logger returns the logger used by all govasp packages.
func Logger() *zap.SugaredLogger {
	logOnce.Do(func() {
		logMu.Lock()
		defer logMu.Unlock()
		if logger == nil {
			logger = newLogger().Sugar()
		}
	})
	logMu.Lock()
	defer logMu.Unlock()
	return logger
}

// SetLogger replaces the library logger. A nil l disables logging.
func SetLogger(l *zap.Logger) {
	logOnce.Do(func() {})
	if l == nil {
		l = zap.NewNop()
	}
	logMu.Lock()
	logger = l.Sugar()
	logMu.Unlock()
}

// SetLogLevel sets the level of the default logger ("debug", "info", "warn", "error").
// It has no effect on loggers given to SetLogger.
func SetLogLevel(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	logLevel.SetLevel(lvl)
	return nil
}
