// ABOUTME: Entry point for the geoedit CLI
// ABOUTME: Executes the root Cobra command

package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
