// Package main is the entry point for the rudis CLI application.
package main

import (
	"os"

	"github.com/petebuzzell-ad/rudis-documentation/cmd"
	"github.com/petebuzzell-ad/rudis-documentation/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
