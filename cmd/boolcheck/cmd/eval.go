package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boolexpr/booleano-go/pkg/grammar"
	"github.com/boolexpr/booleano-go/pkg/ident"
	"github.com/boolexpr/booleano-go/pkg/jsoncontext"
	"github.com/boolexpr/booleano-go/pkg/parser"
	"github.com/boolexpr/booleano-go/pkg/tree"
)

var (
	evalVarsFile    string
	evalContextJSON string
	evalLocale      string
	evalSet         []string
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate an expression against a JSON context, resolving variables from --vars",
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalVarsFile, "vars", "", "YAML file declaring the bound variables (required)")
	evalCmd.Flags().StringVar(&evalContextJSON, "context-json", "", "JSON document the declared variables read from (required)")
	evalCmd.Flags().StringVar(&evalLocale, "locale", "", "BCP 47 locale for localised identifier resolution")
	evalCmd.Flags().StringArrayVar(&evalSet, "set", nil, "override a context path before evaluation, as path=value (value parsed as JSON, falling back to a string); repeatable")
	_ = evalCmd.MarkFlagRequired("vars")
	_ = evalCmd.MarkFlagRequired("context-json")
	rootCmd.AddCommand(evalCmd)
}

func runEval(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig(evalVarsFile)
	if err != nil {
		return err
	}
	root, err := buildNamespace(cfg)
	if err != nil {
		return err
	}

	locale := ident.Locale{}
	if evalLocale != "" {
		locale, err = ident.ParseLocale(evalLocale)
		if err != nil {
			return fail("parsing --locale: %w", err)
		}
	}
	table := root.AsSymbolTable(locale)

	g, err := grammar.NewBuilder().Build()
	if err != nil {
		return err
	}
	exprRoot, err := parser.ParseEvaluable(g, table, args[0])
	if err != nil {
		return err
	}
	evalTree, err := tree.NewEvaluableTree(exprRoot)
	if err != nil {
		return err
	}

	doc, err := readContextDoc(evalContextJSON)
	if err != nil {
		return err
	}
	ctx := jsoncontext.New(doc)
	for _, assignment := range evalSet {
		ctx, err = applySetFlag(ctx, assignment)
		if err != nil {
			return err
		}
	}
	result, err := evalTree.Evaluate(ctx)
	if err != nil {
		return err
	}

	fmt.Println(result)
	if !result {
		os.Exit(1)
	}
	return nil
}

// applySetFlag parses a "path=value" --set assignment and applies it to
// ctx, trying to decode value as JSON first (so --set count=3 yields a
// number, not the string "3") and falling back to the raw string.
func applySetFlag(ctx *jsoncontext.Context, assignment string) (*jsoncontext.Context, error) {
	path, raw, ok := strings.Cut(assignment, "=")
	if !ok {
		return nil, fail("invalid --set %q: expected path=value", assignment)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	return ctx.With(path, value)
}

func readContextDoc(source string) (string, error) {
	if data, err := os.ReadFile(source); err == nil {
		return string(data), nil
	}
	// Not a readable path: treat the flag value itself as inline JSON.
	return source, nil
}
