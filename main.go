package main

import (
	"os"

	"github.com/Kesaramb/infographedia/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
