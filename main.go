package main

import (
	"os"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
