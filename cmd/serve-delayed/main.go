// Package main provides the entry point for the serve-delayed CLI.
package main

import (
	"fmt"
	"os"

	"github.com/wcrbrm/serve-delayed/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
