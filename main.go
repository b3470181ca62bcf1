package main

import (
	"os"

	"github.com/abhisek/eduz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
