package main

import (
	"os"

	"github.com/psantana5/perfy/cmd/perfy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
