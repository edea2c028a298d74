package main

import (
	"os"

	"github.com/lernzeit/quizgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
