// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging operations.
// It provides methods for formatted output and for redirecting it.
//
// The certificate core never logs; commands and the authority orchestration
// report file writes and progress through this interface.
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a new CLI logger with timestamps disabled.
// This is suitable for user-facing CLI output.
func NewCLILogger() *CLILogger {
	l := log.New(os.Stdout, "", 0)
	return &CLILogger{logger: l}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// JSONLogger implements Logger with one [zerolog] JSON event per message.
// It is selected by the --json-log flag so that scripted callers can parse
// what devca wrote and where.
//
// JSONLogger is safe for concurrent use by multiple goroutines.
//
// [zerolog]: https://github.com/rs/zerolog
type JSONLogger struct {
	mu     sync.Mutex
	logger zerolog.Logger
	silent bool
}

// NewJSONLogger creates a new JSON logger writing to writer.
// A nil writer discards output. When silent is true nothing is written
// until the logger is recreated.
func NewJSONLogger(writer io.Writer, silent bool) *JSONLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &JSONLogger{
		logger: zerolog.New(writer).With().Timestamp().Logger(),
		silent: silent,
	}
}

// Printf logs a formatted message at info level.
func (j *JSONLogger) Printf(format string, v ...any) {
	if j.silent {
		return
	}

	j.mu.Lock()
	j.logger.Info().Msgf(format, v...)
	j.mu.Unlock()
}

// Println logs a message at info level. Operands are joined with spaces
// as in fmt.Println, without the trailing newline.
func (j *JSONLogger) Println(v ...any) {
	if j.silent {
		return
	}

	msg := strings.TrimSuffix(fmt.Sprintln(v...), "\n")

	j.mu.Lock()
	j.logger.Info().Msg(msg)
	j.mu.Unlock()
}

// SetOutput sets the output destination for the JSON logger.
// A nil writer discards output.
func (j *JSONLogger) SetOutput(w io.Writer) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if w == nil {
		w = io.Discard
	}
	j.logger = j.logger.Output(w)
}
