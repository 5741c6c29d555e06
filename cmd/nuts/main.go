package main

import (
	"os"

	"github.com/nace/nuts/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCommand(cli.NewGlobalContext())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
