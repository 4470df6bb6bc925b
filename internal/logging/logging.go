// Package logging builds the zerolog logger used by the binary and adapts it
// to the interfaces third-party libraries expect.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log level, format and optional file rotation.
type Config struct {
	Level      string // zerolog level name; invalid or empty means info
	Pretty     bool   // human-readable console output instead of JSON
	File       string // rotated log file; empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Output     io.Writer // console destination; nil means os.Stderr
}

// New builds a logger writing to cfg.Output (stderr by default) and, when
// cfg.File is set, to a lumberjack-rotated file. The returned closer flushes
// and closes the file.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return newWithWriter(cfg, out)
}

func newWithWriter(cfg Config, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	var console io.Writer = stderr
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}
	}

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		// lumberjack opens lazily; probe now so a bad path fails at startup.
		if _, err := rotator.Write(nil); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("opening log file %q: %w", cfg.File, err)
		}
		writers = append(writers, rotator)
		closer = rotator
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(ParseLevel(cfg.Level))

	return logger, closer, nil
}

// ParseLevel converts a level name to a zerolog level, falling back to info.
func ParseLevel(level string) zerolog.Level {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// RodLogger adapts a zerolog logger to rod's utils.Logger, which only has
// Println. Used for browser download progress.
type RodLogger struct {
	Logger zerolog.Logger
}

// Println logs the joined values at debug level.
func (l RodLogger) Println(vs ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintln(vs...))
	if msg == "" {
		return
	}
	l.Logger.Debug().Str("component", "launcher").Msg(msg)
}

// ErrorKind returns a short, stable label for an error chain, suitable as a
// structured log field. Falls back to "error".
func ErrorKind(err error, kinds map[error]string) string {
	for target, label := range kinds {
		if errors.Is(err, target) {
			return label
		}
	}
	return "error"
}
