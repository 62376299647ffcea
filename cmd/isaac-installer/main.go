package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const defaultVersion = "dev"

// Version information (set by GoReleaser)
var (
	version = defaultVersion
	_       = "none"    // commit - set by GoReleaser but not used
	_       = "unknown" // date - set by GoReleaser but not used
)

func main() {
	initVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if shouldPause(app.Bool("no-pause"), os.Stdin) {
			pauseForEnter(os.Stdin, os.Stderr)
		}
		stop()
		os.Exit(1)
	}
}
