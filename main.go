package main

import (
	"os"

	"github.com/quality-irrigation/mi-console/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
