package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/slackerhq/slacker/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrAlreadyReported) {
			fmt.Fprintf(os.Stderr, "slacker: %v\n", err)
		}
		os.Exit(1)
	}
}
