package main

import (
	"os"

	"github.com/UchiaGhost/mt5-gateway/cmd/gateway/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
