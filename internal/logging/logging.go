// Package logging builds the zap logger used across gyropulse. Console
// output goes to stderr so it never mixes with command output; an optional
// file sink is rotated by lumberjack.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level   string // debug, info, warn, error
	File    string // rotated log file, empty for none
	Console bool   // also log to stderr
}

// New returns a logger for opts. A logger with no sinks is a no-op logger.
func New(opts Options) *zap.Logger {
	return newWithConsole(opts, os.Stderr)
}

func newWithConsole(opts Options, console io.Writer) *zap.Logger {
	level := ParseLevel(opts.Level)
	var sinks []zapcore.WriteSyncer
	if opts.Console {
		sinks = append(sinks, zapcore.AddSync(console))
	}
	if opts.File != "" {
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			LocalTime:  true,
		}))
	}
	if len(sinks) == 0 {
		return zap.NewNop()
	}
	core := zapcore.NewCore(encoder(), zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core, zap.AddCaller())
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

func encoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.LineEnding = zapcore.DefaultLineEnding
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeTime = timeEncoder
	cfg.EncodeDuration = zapcore.SecondsDurationEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05"))
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
