// rtrash - move files to a per-volume trash instead of deleting them
// Main entry point for the CLI application
package main

import (
	"fmt"
	"os"

	"rtrash/cmd"
	"rtrash/internal/model"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if model.IsConfiguration(err) {
			fmt.Fprintf(os.Stderr, "rtrash: configuration problem: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
