// Package main provides the revgrad CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/born-ml/revgrad/internal/cli"
)

const version = "v0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, version, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "revgrad:", err)
		stop()
		os.Exit(1)
	}
}
