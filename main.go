package main

import (
	"os"

	"github.com/abhisek/learntrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
