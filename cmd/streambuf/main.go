// Package main is the entry point for the streambuf CLI.
//
// Usage:
//
//	streambuf [flags] <command> [args]
//
// Commands:
//
//	tee      - Copy stdin to stdout and every target
//	cat      - Write a file or stored object to stdout
//	config   - Show or change the configuration file
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/Deadbeetle/helper-streambufs/cmd/streambuf/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
