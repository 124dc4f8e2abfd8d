// Package main is the entry point for the huskymart CLI.
package main

import (
	"github.com/huskymart/huskymart/cmd/huskymart/cmd"
)

func main() {
	cmd.Execute()
}
