package main

import (
	"fmt"
	"os"

	"github.com/gear6io/glacier/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatRunError(err))
		os.Exit(1)
	}
}
