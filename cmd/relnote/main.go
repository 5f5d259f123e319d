package main

import (
	"os"

	"github.com/timbrel/relnote/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
