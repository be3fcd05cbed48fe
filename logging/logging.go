// Copryright (C) 2019 Yawning Angel
//
// This work is licensed under the Creative Commons Attribution-NonCommercial-
// NoDerivatives 4.0 International License. To view a copy of this license,
// visit http://creativecommons.org/licenses/by-nc-nd/4.0/ or send a letter to
// Creative Commons, PO Box 1866, Mountain View, CA 94042, USA.

// Package logging is the structured logging boundary.  Records are level
// plus message plus key value fields, the sink format is a build time
// decision (text by default, JSON under the logjson tag) and opaque to
// callers.
//
// Adapters log state transitions and byte counts at debug level.  Crypto
// backends do not log at all, and key material, nonces and plaintext never
// reach a record.
package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// Logger emits structured records.  A nil *Logger is not usable, callers
// that want silence use Discard.
type Logger struct {
	l *slog.Logger
}

// New constructs a Logger writing records at or above level to w.
func New(w io.Writer, level slog.Level) *Logger {
	return &Logger{l: slog.New(newHandler(w, level))}
}

// Discard constructs a Logger that drops every record.
func Discard() *Logger {
	return &Logger{l: slog.New(slog.DiscardHandler)}
}

// ParseLevel parses a level name ("debug", "info", "warn", "error").
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging: unknown level '%s'", s)
	}

	return level, nil
}

// With returns a Logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l: l.l.With(args...)}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.l.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.l.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.l.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.l.Error(msg, args...)
}
