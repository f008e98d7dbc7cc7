// Package main is the entry point for the jamcheck CLI.
package main

import "jamcheck.dev/pkg/jamcheck/cmd"

func main() {
	cmd.Execute()
}
