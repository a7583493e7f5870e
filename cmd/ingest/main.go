package main

import (
	"os"

	"github.com/finboard/command-center/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
