package main

import (
	"os"

	"github.com/wonny/warehouse/cmd/warehouse/commands"
)

// main is the entry point for the warehouse CLI
// ⭐ single CLI entry point: go run ./cmd/warehouse [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
