// Package main is the entry point for the veresiye CLI.
package main

import (
	"os"

	"github.com/mmynk/veresiye/cmd/veresiye/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
