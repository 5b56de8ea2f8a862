// Package main provides the command-line front end: preview, chart and describe a spreadsheet
// without running the server.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
