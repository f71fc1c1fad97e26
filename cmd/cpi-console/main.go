package main

import (
	"errors"
	"fmt"
	"os"

	"cpi-console/cmd/cpi-console/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		// The failure was already shown by the terminal view.
		if !errors.Is(err, commands.ErrFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
