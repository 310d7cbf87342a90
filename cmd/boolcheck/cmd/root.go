// Package cmd implements the boolcheck CLI's subcommands, grounded on
// the teacher's cmd/dwscript/cmd package: a cobra rootCmd with persistent
// flags and one file per subcommand.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags, the same convention as the teacher's
	// cmd/dwscript/cmd.Version.
	Version = "0.1.0-dev"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "boolcheck",
	Short: "Parse, evaluate, and convert human-readable boolean expressions",
	Long: `boolcheck is a command-line front end for the booleano-go library:
an infix grammar for boolean expressions, bound against a host-supplied
variable context or converted into another representation (e.g. SQL).`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "accepted but unused: no subcommand prints extra diagnostics")
}

func fail(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
