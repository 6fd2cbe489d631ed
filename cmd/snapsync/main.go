package main

import (
	"fmt"
	"os"

	"github.com/runnerr0/snapsync/internal/cli"
)

// version is overridable at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintf(os.Stderr, "snapsync: %v\n", err)
		os.Exit(1)
	}
}
