// Package logger is the leveled printf-style logger shared by the service and the worker.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelOff Level = iota
	LevelInfo
	LevelDebug
)

// ParseLevel maps the logs.level config value to a Level.
func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "off", "none":
		return LevelOff, nil
	case "", "info":
		return LevelInfo, nil
	case "debug", "verbose":
		return LevelDebug, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", value)
	}
}

// Logger is safe for concurrent use.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	debug  *log.Logger
	info   *log.Logger
	warn   *log.Logger
	errLog *log.Logger
}

// New creates a logger writing to out, or os.Stderr when out is nil.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	flags := log.LstdFlags | log.LUTC

	return &Logger{
		level:  level,
		debug:  log.New(out, "[DBG] ", flags),
		info:   log.New(out, "[INF] ", flags),
		warn:   log.New(out, "[WRN] ", flags),
		errLog: log.New(out, "[ERR] ", flags),
	}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return New(LevelOff, io.Discard)
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) Debug(format string, args ...any) {
	l.output(LevelDebug, l.debug, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.output(LevelInfo, l.info, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.output(LevelInfo, l.warn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.output(LevelInfo, l.errLog, format, args...)
}

// Fatal logs regardless of level and exits.
func (l *Logger) Fatal(format string, args ...any) {
	l.errLog.Output(2, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Writer exposes the info stream, e.g. for gin's default writer.
func (l *Logger) Writer() io.Writer {
	return l.info.Writer()
}

func (l *Logger) output(min Level, dst *log.Logger, format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.level >= min {
		dst.Output(3, fmt.Sprintf(format, args...))
	}
}
