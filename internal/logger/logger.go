// Package logger is the process-wide zerolog logger of ypsync.
//
// Warnings and errors are always written. Debug, info and section lines
// need --verbose. Output goes to stderr as plain console lines, or as JSON
// lines once SetJSON(true) is called.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type options struct {
	verbose bool
	json    bool
	out     io.Writer
}

var (
	mu   sync.RWMutex
	opts = options{out: os.Stderr}
	log  = opts.logger()
)

func (o options) logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	if o.json {
		return zerolog.New(o.out).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        o.out,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: func(i any) string {
			return "[" + strings.ToUpper(fmt.Sprint(i)) + "]"
		},
	}).Level(level)
}

func configure(change func(*options)) {
	mu.Lock()
	defer mu.Unlock()
	change(&opts)
	log = opts.logger()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// SetVerbose enables debug and info output.
func SetVerbose(v bool) { configure(func(o *options) { o.verbose = v }) }

// SetJSON switches between console and JSON line output.
func SetJSON(v bool) { configure(func(o *options) { o.json = v }) }

// SetOutput redirects logs, which go to os.Stderr by default.
func SetOutput(w io.Writer) { configure(func(o *options) { o.out = w }) }

// Debug logs a formatted message when verbose.
func Debug(format string, args ...any) { current().Debug().Msgf(format, args...) }

// Info logs a formatted message when verbose.
func Info(format string, args ...any) { current().Info().Msgf(format, args...) }

// Warn logs a formatted warning.
func Warn(format string, args ...any) { current().Warn().Msgf(format, args...) }

// Error logs a formatted error.
func Error(format string, args ...any) { current().Error().Msgf(format, args...) }

// Section marks the start of a reconciliation phase in verbose output.
func Section(name string) {
	current().Info().Str("section", name).Msg("=== " + name + " ===")
}
