// Package logging builds the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const ServiceName = "midai"

type Options struct {
	Service string
	Level   string    // zerolog level name, "" means info
	Console bool      // human-readable output instead of JSON
	File    string    // optional rotating log file, written in addition to Out
	Out     io.Writer // defaults to os.Stderr
}

var stackOnce sync.Once

// configureStacks makes .Stack() on error events render a stack even for
// errors created without github.com/pkg/errors.
func configureStacks() {
	type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
}

// New returns a logger tagged with the service name and a timestamp.
func New(opts Options) (zerolog.Logger, error) {
	stackOnce.Do(configureStacks)

	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = l
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	if opts.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	service := opts.Service
	if service == "" {
		service = ServiceName
	}
	return zerolog.New(out).Level(level).With().
		Str("service", service).
		Timestamp().
		Logger(), nil
}
