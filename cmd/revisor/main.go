package main

import (
	"os"

	"github.com/metadatalab/revisor/cmd/revisor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
