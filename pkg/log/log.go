// Copyright (c) 2026 Hewlett Packard Enterprise Development LP.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var defaultLogger = logr.Discard()

// SetDefault replaces the logger returned by FromContextOrDefault when the
// context does not carry one. Called once from main.
func SetDefault(l logr.Logger) {
	defaultLogger = l
}

// FromContextOrDefault returns a Logger from ctx. If no Logger is found, this
// returns the process default logger so we at least don't accidentally
// discard logs. Prefer using this over logr.FromContextOrDiscard().
func FromContextOrDefault(ctx context.Context) logr.Logger {
	if logger, err := logr.FromContext(ctx); err == nil {
		return logger
	}
	return defaultLogger
}

// New builds a console logger at the given level ("debug", "info", "warn",
// "error").
func New(level string) (logr.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return logr.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	loggerCfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "severity",
			NameKey:        "logger",
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	zl, err := loggerCfg.Build(zap.AddStacktrace(zap.DPanicLevel))
	if err != nil {
		return logr.Logger{}, err
	}

	return zapr.NewLogger(zl), nil
}
