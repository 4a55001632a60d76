package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

const timeFormat = "2006-01-02 15:04:05"

type Options struct {
	Writer    io.Writer
	Level     slog.Leveler
	JSON      bool
	AddSource bool
}

// New builds the application logger: JSON lines for collectors, tint for terminals.
func New(opts Options) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{
			AddSource: opts.AddSource,
			Level:     opts.Level,
		})
	} else {
		handler = tint.NewHandler(opts.Writer, &tint.Options{
			AddSource:  opts.AddSource,
			Level:      opts.Level,
			TimeFormat: timeFormat,
		})
	}

	return slog.New(handler)
}
