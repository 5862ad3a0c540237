// Command hemlock is the Hemlock interpreter and bytecode compiler CLI
// (spec §6): run a script, evaluate inline code, drop into a REPL, or
// serialize a program to its binary `.hmlc` form.
package main

import (
	"fmt"
	"os"

	"github.com/hemlock-lang/hemlock/cmd/hemlock/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
