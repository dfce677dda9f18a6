package main

import (
	"os"

	"github.com/MikeSquared-Agency/Huddle/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
