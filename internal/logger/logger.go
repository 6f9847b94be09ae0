// Package logger is the structured logging facade used across the service.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the process logger. Console output is human readable and
// meant for development.
func Init(level string, console bool) {
	var out io.Writer = os.Stderr
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	SetOutput(out, level)
}

func SetOutput(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Log writes one structured entry. fields and err may be nil.
func Log(level Level, fields map[string]string, err error, msg string) {
	mu.RLock()
	l := log
	mu.RUnlock()

	var event *zerolog.Event
	switch level {
	case LevelDebug:
		event = l.Debug()
	case LevelWarn:
		event = l.Warn()
	case LevelError:
		event = l.Error()
	default:
		event = l.Info()
	}

	for k, v := range fields {
		event = event.Str(k, v)
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}
