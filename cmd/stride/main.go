package main

import (
	"os"

	"go.stride.dev/cmd/stride/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
