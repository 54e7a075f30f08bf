package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.netreplay.io/netreplay/cli"
	"go.netreplay.io/netreplay/utils/log"
)

func main() {
	logger, err := log.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize the logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.Root(ctx, logger)
	if rootCmd == nil {
		os.Exit(1)
	}
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("command failed")
		os.Exit(1)
	}
}
