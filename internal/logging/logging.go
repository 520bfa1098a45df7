// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging provides the diagnostic logger used by the converter and
// its automation backends. User-facing progress is written separately to an
// io.Writer; this logger carries the detail needed to debug a host
// application that misbehaves.
package logging

import (
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the minimal structured logger the packages depend on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config selects the level and output format of the diagnostic logger.
type Config struct {
	Level  string
	Format string
}

type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}

// NoOp returns a Logger that discards everything.
func NoOp() Logger { return noop{} }

// OrNoOp returns l, or a no-op logger when l is nil.
func OrNoOp(l Logger) Logger {
	if l == nil {
		return noop{}
	}
	return l
}

// New builds a go-logger backed Logger named name. An empty level disables
// diagnostic logging and returns a no-op logger.
func New(name string, cfg Config) (Logger, error) {
	level := normalizeLevel(cfg.Level)
	if strings.TrimSpace(cfg.Level) == "" {
		return NoOp(), nil
	}
	if level == "" {
		return nil, fmt.Errorf("logging: unsupported level %q", cfg.Level)
	}

	options := []glog.Option{glog.WithLevel(level)}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported format %q", cfg.Format)
	}

	root := glog.NewLogger(options...)
	if name == "" {
		return root, nil
	}
	return root.GetLogger(name), nil
}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "warn", "warning":
		return glog.Warn
	case "error":
		return glog.Error
	default:
		return ""
	}
}
