// Command optics-ring generates 3D printable support rings for lenses
// and other optical elements as binary STL files.
package main

import (
	"context"
	"log/slog"
	"os"
)

var version = "0.1.0-dev"

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
