// cmd/paulander/main.go
package main

import (
	"os"

	"github.com/dnnspaul/paulander/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
