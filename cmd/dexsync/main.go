// Package main provides the entry point for the dexsync CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/dexsync/cmd/dexsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
