// Package main is the entry point for the ontop command-line tool.
package main

import (
	"os"

	"github.com/Norgate-AV/ontop/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
