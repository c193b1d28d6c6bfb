// Command biolens is the ABFI market-intelligence terminal client.
package main

import (
	"os"

	"github.com/abfi/biolens/internal/cli"
	"github.com/abfi/biolens/internal/config"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func run() error {
	// os.Exit in main skips deferred calls, so the log file is closed here.
	defer config.CloseLogFile()
	return cli.NewRootCmd(version).Execute()
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}
