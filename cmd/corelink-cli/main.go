// Package main provides the entry point for corelink-cli.
//
// corelink-cli controls a running corelink-service over its local socket
// or named pipe.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/corelink-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
