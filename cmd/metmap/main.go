// Command metmap maps compounds and reactions between two metabolic models.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/metmap/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// SIGINT/SIGTERM cancel the running pass; the pool drops partial results.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	status := cli.Execute(ctx)
	stop()
	os.Exit(status)
}

//Personal.AI order the ending
