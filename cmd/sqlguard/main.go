// Package main is the entry point for the sqlguard CLI.
package main

import (
	"fmt"
	"os"

	"github.com/satishbabariya/sqlguard/cmd/sqlguard/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
