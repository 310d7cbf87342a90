package ast

import "github.com/boolexpr/booleano-go/pkg/boolerr"

// Converter is a visitor with one callback per node variant (spec.md
// §4.3). Convert runs a post-order fold: children are converted first,
// then the parent callback receives their already-converted values.
// Binary operator callbacks receive master first, then slave — the order
// after organizeOperands, not necessarily the source order.
//
// Methods return `any` rather than a generic type parameter because Node
// is a closed, heterogeneous interface walked by dynamic dispatch; use
// ConvertTyped (below) to get a typed result back out.
type Converter interface {
	String(text string) any
	Number(n float64) any
	Set(elements []any) any
	Variable(name string, namespacePath []string) any
	Function(name string, namespacePath []string, args []any) any
	Not(x any) any
	And(master, slave any) any
	Or(master, slave any) any
	Xor(master, slave any) any
	Equal(master, slave any) any
	NotEqual(master, slave any) any
	LessThan(master, slave any) any
	GreaterThan(master, slave any) any
	LessEqual(master, slave any) any
	GreaterEqual(master, slave any) any
	BelongsTo(master, slave any) any
	IsSubset(master, slave any) any
}

// Convert runs conv's post-order fold over root and returns its result.
// It never fails on its own — the only way traversal can stop is if root
// is nil, which a parser never hands back.
func Convert(root Node, conv Converter) any {
	if root == nil {
		return nil
	}
	return root.fold(conv)
}

// ConvertTyped is a convenience wrapper for converters whose output is
// known to be a single Go type; it fails with Conversion if the
// converter's result does not assert to R (e.g. a bug in a custom
// Converter implementation that returns the wrong type from one branch).
func ConvertTyped[R any](root Node, conv Converter) (R, error) {
	var zero R
	out := Convert(root, conv)
	if out == nil {
		return zero, nil
	}
	typed, ok := out.(R)
	if !ok {
		return zero, boolerr.New(boolerr.Conversion, "converter returned %T, want %T", out, zero)
	}
	return typed, nil
}
