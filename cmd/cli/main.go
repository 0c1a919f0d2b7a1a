// Package main is the entry point for the outscale-cost CLI.
package main

import (
	"os"

	"outscale-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
