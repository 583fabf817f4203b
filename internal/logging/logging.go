// Package logging builds the zap logger used across pgnfmt.
//
// Warnings about skipped input (malformed tag lines, unparsable turns,
// incomplete records) go through this logger rather than stopping a run.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lj "gopkg.in/natefinch/lumberjack.v2"

	"github.com/lgbarn/pgnfmt-go/internal/config"
)

// Rotation limits for the optional log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// New returns a logger writing console-encoded entries to w and, when
// cfg.Log.File is set, JSON entries to a rotated file. The returned
// function flushes and closes the sinks.
func New(cfg *config.Config) (*zap.Logger, func() error) {
	level := ParseLevel(cfg.Log.Level)

	w := cfg.LogFile
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level),
	}

	var rotated *lj.Logger
	if strings.TrimSpace(cfg.Log.File) != "" {
		rotated = &lj.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotated),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	closeFn := func() error {
		_ = logger.Sync() //nolint:errcheck // stderr cannot always be synced
		if rotated != nil {
			return rotated.Close()
		}
		return nil
	}
	return logger, closeFn
}

// ToWriter returns a logger writing console-encoded entries to w at the
// given level. Tests use it to capture warnings.
func ToWriter(w io.Writer, level string) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), ParseLevel(level)))
}

// ParseLevel converts a level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
