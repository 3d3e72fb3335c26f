package main

import (
	"os"

	"github.com/harrowgate-labs/grimoire-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
