package main

import (
	"os"

	"github.com/cwbudde/go-wac/cmd/wac/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
