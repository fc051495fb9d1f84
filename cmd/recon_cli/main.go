package main

import (
	"os"

	"github.com/SscSPs/bank_reconciliation/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
