// Package tree wraps a parsed pkg/ast.Node root into one of the two
// tree flavours spec.md §4.1 describes: EvaluableTree, which is bound to
// a runtime context and returns a bool, and ConvertibleTree, which
// carries unresolved placeholders and is walked by a Converter instead.
package tree

import (
	"github.com/boolexpr/booleano-go/pkg/ast"
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/datatype"
)

// EvaluableTree is a fully bound expression tree whose root implements
// Boolean (spec.md §4.1). It is safe for concurrent Evaluate calls with
// distinct Context values — the tree itself carries no mutable state.
type EvaluableTree struct {
	root ast.Node
}

// NewEvaluableTree wraps root, failing with InvalidOperation if it does
// not implement the Boolean capability — every evaluable tree must
// ultimately answer true/false.
func NewEvaluableTree(root ast.Node) (*EvaluableTree, error) {
	if !root.Tags().Has(datatype.Boolean) {
		return nil, boolerr.New(boolerr.InvalidOperation, "evaluable tree root must implement Boolean (has %s)", root.Tags())
	}
	return &EvaluableTree{root: root}, nil
}

// Root returns the wrapped node, mainly for Converters and tests that
// need to inspect tree shape directly.
func (t *EvaluableTree) Root() ast.Node { return t.root }

// Evaluate binds root to ctx and reads it as Boolean.
func (t *EvaluableTree) Evaluate(ctx datatype.Context) (bool, error) {
	br, ok := t.root.(datatype.BooleanReadable)
	if !ok {
		return false, boolerr.New(boolerr.InvalidOperation, "evaluable tree root does not implement the Boolean read contract")
	}
	return br.ReadAsBoolean(ctx)
}

// Equals is structural equality between two evaluable trees.
func (t *EvaluableTree) Equals(other *EvaluableTree) bool {
	if other == nil {
		return false
	}
	return t.root.Equals(other.root)
}

// ConvertibleTree carries possibly-unresolved PlaceholderVariable/
// PlaceholderFunction nodes; it is never evaluated, only converted
// (spec.md §4.1, §4.3).
type ConvertibleTree struct {
	root ast.Node
}

// NewConvertibleTree wraps root with no further validation: a
// convertible tree need not be boolean-rooted, since a Converter may
// target any output representation.
func NewConvertibleTree(root ast.Node) *ConvertibleTree {
	return &ConvertibleTree{root: root}
}

func (t *ConvertibleTree) Root() ast.Node { return t.root }

// Convert runs conv's post-order fold over the tree.
func (t *ConvertibleTree) Convert(conv ast.Converter) any {
	return ast.Convert(t.root, conv)
}

// ConvertTyped is the generic convenience wrapper around Convert.
func ConvertTyped[R any](t *ConvertibleTree, conv ast.Converter) (R, error) {
	return ast.ConvertTyped[R](t.root, conv)
}

// Equals is structural equality between two convertible trees.
func (t *ConvertibleTree) Equals(other *ConvertibleTree) bool {
	if other == nil {
		return false
	}
	return t.root.Equals(other.root)
}
