// Command dsdl compiles dataset schemas and validates samples against them.
package main

import (
	"os"

	"dsdl-go/internal/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
