package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/CTAG07/Parsifal/pkg/engine"
	"github.com/natefinch/atomic"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("parsifal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: parsifal [flags] <template>")
		fs.PrintDefaults()
	}

	opts, err := ParseConfig(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.Version {
		_, _ = fmt.Fprintf(stdout, "parsifal %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		return 0
	}

	logger := newLogger(opts.LogLevel, stderr)
	if err = generate(ctx, opts, logger, stdout); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// generate evaluates the template once and writes the result.
func generate(ctx context.Context, opts *Options, logger *slog.Logger, stdout io.Writer) error {
	src, release, err := openSource(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer release()

	eng := engine.New(logger, src, opts.engineConfig())
	logger.Info("Engine ready", "seed", eng.Seed())

	if opts.Library != "" {
		eng.LoadDirectory(ctx, opts.Library)
	}
	out := eng.ParseContext(ctx, opts.Template)

	if opts.Out == "" {
		_, err = fmt.Fprintln(stdout, out)
		return err
	}
	if err = atomic.WriteFile(opts.Out, strings.NewReader(out+"\n")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("Output written", "path", opts.Out, "bytes", len(out)+1)
	return nil
}
