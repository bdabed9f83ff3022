// Command njector inspects njector settings and registration journals.
package main

import (
	"fmt"
	"os"

	"github.com/randalmurphal/njector/cmd/njector/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
