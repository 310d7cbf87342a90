// Package ast defines the expression tree shared by evaluable and
// convertible parse trees: constants, placeholders, bound variables and
// functions, and the unary/binary operators, together with structural
// equality and the post-order Converter fold.
//
// The node variants form a closed sum type, the same shape as the
// teacher's Expression/Statement interfaces in ast/ast.go — a marker
// method per role, dispatched by a type switch rather than an open class
// hierarchy.
package ast

import (
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/datatype"
)

// Kind identifies a node's variant, used for structural-equality and
// Converter dispatch.
type Kind int

const (
	KindConstantString Kind = iota
	KindConstantNumber
	KindConstantSet
	KindPlaceholderVariable
	KindPlaceholderFunction
	KindBoundVariable
	KindBoundFunctionCall
	KindNot
	KindAnd
	KindOr
	KindXor
	KindEqual
	KindNotEqual
	KindLessThan
	KindGreaterThan
	KindLessEqual
	KindGreaterEqual
	KindBelongsTo
	KindIsSubset
)

// Node is the base contract of every AST node: constants, placeholders,
// bound variables/functions, and operators.
type Node interface {
	Kind() Kind
	IsLeaf() bool
	// Tags reports which datatype capabilities this node implements.
	Tags() datatype.Tags
	// PreferredTag is the single tag used when this node acts as the
	// master side of Equal/NotEqual and the other side must be read in
	// "this node's preferred type" (spec.md §4.2).
	PreferredTag() datatype.Tag
	// Equals is structural equality: same variant, same scalar fields,
	// and equal children (commutative operators compare children as a
	// multiset).
	Equals(other Node) bool
	// fold drives the post-order Converter traversal; unexported because
	// the variant set is closed.
	fold(conv Converter) any
}

// BaseLeaf is embedded by leaf node variants.
type BaseLeaf struct{}

func (BaseLeaf) IsLeaf() bool { return true }

// BaseBranch is embedded by branch node variants.
type BaseBranch struct{}

func (BaseBranch) IsLeaf() bool { return false }

// valueOf reads n as tag, failing with InvalidOperation if n does not
// declare that capability or if the host-supplied read itself errors.
func valueOf(n Node, tag datatype.Tag, ctx datatype.Context) (datatype.Value, error) {
	if !n.Tags().Has(tag) {
		return datatype.Value{}, boolerr.New(boolerr.InvalidOperation,
			"operand does not implement %s (has %s)", tag, n.Tags())
	}
	switch tag {
	case datatype.Boolean:
		br, ok := n.(datatype.BooleanReadable)
		if !ok {
			return datatype.Value{}, badOperand(n, tag)
		}
		b, err := br.ReadAsBoolean(ctx)
		if err != nil {
			return datatype.Value{}, err
		}
		return datatype.Value{Tag: datatype.Boolean, Bool: b}, nil
	case datatype.Number:
		nr, ok := n.(datatype.NumberReadable)
		if !ok {
			return datatype.Value{}, badOperand(n, tag)
		}
		v, err := nr.ReadAsNumber(ctx)
		if err != nil {
			return datatype.Value{}, err
		}
		return datatype.Value{Tag: datatype.Number, Num: v}, nil
	case datatype.String:
		sr, ok := n.(datatype.StringReadable)
		if !ok {
			return datatype.Value{}, badOperand(n, tag)
		}
		v, err := sr.ReadAsString(ctx)
		if err != nil {
			return datatype.Value{}, err
		}
		return datatype.Value{Tag: datatype.String, Str: v}, nil
	case datatype.Set:
		setr, ok := n.(datatype.SetReadable)
		if !ok {
			return datatype.Value{}, badOperand(n, tag)
		}
		elems, err := setr.ReadAsSet(ctx)
		if err != nil {
			return datatype.Value{}, err
		}
		return datatype.Value{Tag: datatype.Set, Elems: elems}, nil
	default:
		return datatype.Value{}, boolerr.New(boolerr.InvalidOperation, "unknown datatype tag %v", tag)
	}
}

func badOperand(n Node, tag datatype.Tag) error {
	return boolerr.New(boolerr.BadOperand,
		"operand declares %s but does not implement the %s read contract", tag, tag)
}

// clone makes an independent copy of a node, used when a function call
// inherits a declared default argument (spec.md: "defaults are cloned,
// never aliased into the call").
func clone(n Node) Node {
	switch v := n.(type) {
	case *ConstantString:
		c := *v
		return &c
	case *ConstantNumber:
		c := *v
		return &c
	case *ConstantSet:
		elems := make([]Node, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = clone(e)
		}
		return &ConstantSet{Elements: elems}
	case *PlaceholderVariable:
		c := *v
		return &c
	case *PlaceholderFunction:
		args := make([]Node, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = clone(a)
		}
		return &PlaceholderFunction{Name: v.Name, NamespacePath: append([]string(nil), v.NamespacePath...), Arguments: args}
	default:
		// Bound variables/functions and operators are immutable and
		// carry no per-call state, so aliasing them as a default is
		// safe; only literal/placeholder subtrees need deep copies.
		return n
	}
}
