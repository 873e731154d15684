// Command fiber renders the demo component tree, either once into an
// in-memory host or interactively in the terminal.
package main

import (
	"fmt"
	"os"

	_ "github.com/tliron/commonlog/simple"

	"github.com/go-drift/fiber/cmd/fiber/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
