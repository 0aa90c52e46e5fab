package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const EnvDev = "dev"

type Options struct {
	// Service defaults to the executable name.
	Service   string
	Env       string
	Level     string
	AddSource bool

	// Output defaults to os.Stderr, keeping stdout free for command output.
	Output io.Writer
}

// New builds the process logger and installs it as the slog default.
// The dev environment gets human-readable text lines, everything else JSON.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	service := opts.Service
	if service == "" {
		service = filepath.Base(os.Args[0])
	}

	hopts := &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var h slog.Handler
	if opts.Env == EnvDev {
		h = slog.NewTextHandler(out, hopts)
	} else {
		h = slog.NewJSONHandler(out, hopts)
	}

	base := slog.New(h).With(
		"service", service,
		"env", opts.Env,
	)

	slog.SetDefault(base)
	return base
}

func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
