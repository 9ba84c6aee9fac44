// Package logging provides the bracketed leveled logger used across the
// pipeline (validator, executor, kernel) instead of per-package ad-hoc
// log.Printf calls.
package logging

import (
	"log"
	"os"
)

// Level represents logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger is a minimal leveled wrapper around the standard library logger.
type Logger struct {
	level Level
}

// New creates a logger at the given level.
func New(level Level) *Logger {
	return &Logger{level: level}
}

// Default builds a logger from the WEBGWAS_LOG_LEVEL environment variable,
// defaulting to info.
func Default() *Logger {
	level := LevelInfo
	switch os.Getenv("WEBGWAS_LOG_LEVEL") {
	case "ERROR":
		level = LevelError
	case "WARN":
		level = LevelWarn
	case "DEBUG":
		level = LevelDebug
	}
	return New(level)
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// DefaultLogger is the process-wide logger instance.
var DefaultLogger = Default()
