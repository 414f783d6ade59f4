package main

import (
	"os"

	"github.com/jeffjose/utter/cmd/utterd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
