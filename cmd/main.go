package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/rsvp-backend/internal/app"
)

const shutdownTimeout = 20 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	if err := a.Start(); err != nil {
		a.Log.Error("start failed", "error", err)
		a.Close()
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			a.Log.Error("http server stopped", "error", err)
			exitCode = 1
		}
	case <-ctx.Done():
		a.Log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		a.Log.Error("shutdown incomplete", "error", err)
		exitCode = 1
	}
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}
