package main

import (
	"os"

	"github.com/jwebster45206/storybook/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
