package main

import (
	"os"

	"github.com/dhabedank/weekplan/cmd"
)

var version = "0.1.0"

func main() {
	if err := cmd.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}
