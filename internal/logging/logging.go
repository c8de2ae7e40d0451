// Package logging holds the process-wide zap logger.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is a no-op until Initialize is called
var Log *zap.Logger = zap.NewNop()

// Options configures the logger
type Options struct {
	Level string
	// File enables size-based rotation through lumberjack; empty logs to stderr
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Initialize replaces Log with a logger built from opts
func Initialize(opts Options) error {
	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var sink zapcore.WriteSyncer
	var encoder zapcore.Encoder
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := opts.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			Compress:   true,
		})
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		sink = zapcore.Lock(os.Stderr)
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	Log = zap.New(zapcore.NewCore(encoder, sink, lvl))
	return nil
}

// Sync flushes buffered log entries
func Sync() {
	_ = Log.Sync()
}
