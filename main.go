// Package main is the entry point for the lakeshift CLI application.
// It migrates configuration and metastore DDL between workspace deployments.
package main

import (
	"lakeshift/cli/cmd"
)

// main initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
