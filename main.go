package main

import (
	"os"

	"github.com/y4m4usr/hl001-quiz-must1/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
