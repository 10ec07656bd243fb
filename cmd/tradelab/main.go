package main

import (
	"os"

	"tradelab/cmd/tradelab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
