package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boolexpr/booleano-go/pkg/grammar"
	"github.com/boolexpr/booleano-go/pkg/parser"
	"github.com/boolexpr/booleano-go/pkg/sqlconvert"
	"github.com/boolexpr/booleano-go/pkg/tree"
)

var convertCmd = &cobra.Command{
	Use:   "convert <expression>",
	Short: "Convert an expression into a SQL WHERE-clause fragment",
	Long: `Convert parses the expression without resolving any identifier, then
renders it as a SQL fragment: every variable/function name becomes its own
SQL column name, qualified with its namespace path using dots.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, args []string) error {
	g, err := grammar.NewBuilder().Build()
	if err != nil {
		return err
	}
	root, err := parser.ParseConvertible(g, args[0])
	if err != nil {
		return err
	}
	convertible := tree.NewConvertibleTree(root)

	conv := sqlconvert.New(sqlconvert.MapFunc(func(namespacePath []string, name string) (string, error) {
		if len(namespacePath) == 0 {
			return name, nil
		}
		return strings.Join(namespacePath, ".") + "." + name, nil
	}))
	sql, err := tree.ConvertTyped[string](convertible, conv)
	if err != nil {
		return err
	}
	if err := conv.Err(); err != nil {
		return err
	}

	fmt.Println(sql)
	return nil
}
