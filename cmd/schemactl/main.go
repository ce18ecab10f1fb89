// Package main is the schemactl command line tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aleph-Alpha/schema-management/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], cli.Options{})
	stop()
	os.Exit(code)
}
