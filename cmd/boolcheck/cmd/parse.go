package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boolexpr/booleano-go/pkg/ast"
	"github.com/boolexpr/booleano-go/pkg/grammar"
	"github.com/boolexpr/booleano-go/pkg/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <expression>",
	Short: "Parse an expression and print its tree shape, without resolving any identifier",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	g, err := grammar.NewBuilder().Build()
	if err != nil {
		return err
	}
	root, err := parser.ParseConvertible(g, args[0])
	if err != nil {
		return err
	}
	fmt.Println(ast.Convert(root, &dumpConverter{}))
	return nil
}

// dumpConverter renders a convertible tree as a single-line s-expression,
// the CLI's equivalent of the teacher's --dump-ast flag.
type dumpConverter struct{}

func (dumpConverter) String(text string) any { return fmt.Sprintf("%q", text) }
func (dumpConverter) Number(n float64) any   { return fmt.Sprintf("%g", n) }
func (dumpConverter) Set(elements []any) any {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = toStr(e)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (dumpConverter) Variable(name string, namespacePath []string) any {
	return qualify(namespacePath, name)
}
func (dumpConverter) Function(name string, namespacePath []string, args []any) any {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = toStr(a)
	}
	return fmt.Sprintf("%s(%s)", qualify(namespacePath, name), strings.Join(parts, ", "))
}
func (dumpConverter) Not(x any) any               { return fmt.Sprintf("(not %s)", toStr(x)) }
func (dumpConverter) And(m, s any) any             { return fmt.Sprintf("(and %s %s)", toStr(m), toStr(s)) }
func (dumpConverter) Or(m, s any) any              { return fmt.Sprintf("(or %s %s)", toStr(m), toStr(s)) }
func (dumpConverter) Xor(m, s any) any             { return fmt.Sprintf("(xor %s %s)", toStr(m), toStr(s)) }
func (dumpConverter) Equal(m, s any) any           { return fmt.Sprintf("(== %s %s)", toStr(m), toStr(s)) }
func (dumpConverter) NotEqual(m, s any) any        { return fmt.Sprintf("(!= %s %s)", toStr(m), toStr(s)) }
func (dumpConverter) LessThan(m, s any) any        { return fmt.Sprintf("(< %s %s)", toStr(m), toStr(s)) }
func (dumpConverter) GreaterThan(m, s any) any     { return fmt.Sprintf("(> %s %s)", toStr(m), toStr(s)) }
func (dumpConverter) LessEqual(m, s any) any       { return fmt.Sprintf("(<= %s %s)", toStr(m), toStr(s)) }
func (dumpConverter) GreaterEqual(m, s any) any    { return fmt.Sprintf("(>= %s %s)", toStr(m), toStr(s)) }
func (dumpConverter) BelongsTo(m, s any) any       { return fmt.Sprintf("(belongs-to %s %s)", toStr(s), toStr(m)) }
func (dumpConverter) IsSubset(m, s any) any        { return fmt.Sprintf("(is-subset %s %s)", toStr(s), toStr(m)) }

var _ ast.Converter = dumpConverter{}

func toStr(v any) string {
	s, _ := v.(string)
	return s
}

func qualify(namespacePath []string, name string) string {
	if len(namespacePath) == 0 {
		return name
	}
	return strings.Join(namespacePath, ":") + ":" + name
}
