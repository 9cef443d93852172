// Copyright 2025 Certen Protocol
//
// Minimal leveled logger wrapping the standard library's log package, in
// the validator's own idiom (main.go: plain log.Printf/log.Fatalf calls,
// no external logging library -- the teacher never imports zap or
// logrus, so this package doesn't either).
package semlog

import (
	"log"
	"os"
)

// Level is a logging severity, ordered least to most severe.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

// ParseLevel parses "debug", "info", "warn", or "error" (case-sensitive,
// matching pkg/config's LogLevel validation).
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return Debug
	case "warn":
		return Warn
	case "error":
		return Error
	default:
		return Info
	}
}

// Logger is a level-filtered wrapper around *log.Logger.
type Logger struct {
	min Level
	out *log.Logger
}

// New returns a Logger writing to stderr with a timestamp prefix,
// filtering out anything below min.
func New(min Level) *Logger {
	return &Logger{min: min, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *Logger) log(level Level, tag, format string, args []interface{}) {
	if level < l.min {
		return
	}
	l.out.Printf(tag+" "+format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(Debug, "[debug]", format, args) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(Info, "[info]", format, args) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(Warn, "[warn]", format, args) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(Error, "[error]", format, args) }
