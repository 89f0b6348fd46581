// Package main provides the entry point for the medication chatbot.
package main

import (
	"fmt"
	"os"

	"github.com/giygas/bulario-chat/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
