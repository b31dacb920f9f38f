package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/basher/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false), log.WithLevel(log.LevelInfo))
	logger.Info("interpreter started", slog.String("version", "0.1.0"))
	// Output: level=INFO msg="interpreter started" version=0.1.0
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false), log.WithLevel(log.LevelWarn))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("call depth exceeded", slog.String("call", "loop"))
	// Output: level=WARN msg="call depth exceeded" call=loop
}

func Example_withContext() {
	type requestIDKey struct{}

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-789")

	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false), log.WithFormat(log.FormatJSON), log.WithLevel(log.LevelDebug))
	logger.DebugContext(ctx, "evaluating chain", slog.Int("elements", 3))
	// Output: {"level":"DEBUG","msg":"evaluating chain","elements":3}
}
