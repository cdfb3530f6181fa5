package main

import (
	"os"

	"github.com/cubetools/wcacheck/cmd/wcacheck/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
