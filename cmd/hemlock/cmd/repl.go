package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/hemlock-lang/hemlock/pkg/hemlock"
)

// runREPL is the interactive loop `hemlock` (no FILE) and `hemlock -i
// FILE` drop into: one line at a time, printed the way a REPL prints
// the value of the last bare expression, sharing the engine (and so
// its Globals) across lines.
func runREPL(engine *hemlock.Engine) error {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("hemlock REPL — Ctrl-D to exit")
	for {
		fmt.Print("hemlock> ")
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		v, err := engine.Eval(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if v != nil && v.Type() != "null" {
			fmt.Println(v.String())
		}
	}
}
