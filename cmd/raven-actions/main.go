// Package main is the entry point for the raven-actions CLI.
package main

import (
	"os"

	"github.com/aidanlsb/raven-actions/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
