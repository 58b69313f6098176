// Package logging builds the [slog.Logger] used by the example programs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

type Options struct {
	// auto, text or json. auto picks text on a terminal and json otherwise.
	Format string
	// debug, info, warn or error.
	Level string
	// Defaults to os.Stderr.
	Output io.Writer
}

func New(opts Options) (*slog.Logger, error) {
	var level slog.Level
	if opts.Level == "" {
		opts.Level = "info"
	}
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch opts.Format {
	case "", "auto":
		if isTerminal(out) {
			return slog.New(slog.NewTextHandler(out, handlerOpts)), nil
		}
		return slog.New(slog.NewJSONHandler(out, handlerOpts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(out, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}
}

// Nop returns a logger that discards all output.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
