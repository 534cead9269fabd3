package main

import (
	"os"

	"github.com/osse101/MapBot_Go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
