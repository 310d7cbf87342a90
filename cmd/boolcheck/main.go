// Command boolcheck parses, evaluates, and converts boolean expressions
// from the command line, exercising the library end to end the way the
// teacher's dwscript command exercises its interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/boolexpr/booleano-go/cmd/boolcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
