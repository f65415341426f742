package main

import (
	"os"

	"github.com/manikadiri/healthnav/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
