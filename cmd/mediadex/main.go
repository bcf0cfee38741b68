package main

import (
	"os"

	"github.com/mediadex-dev/mediadex-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
