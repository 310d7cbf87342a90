// Package scope implements the hierarchical, locale-aware binding system
// that turns identifier tokens into bound variables or functions during
// parsing (spec.md §3, §4.6). It is grounded on the teacher's
// internal/semantic.SymbolTable — name-keyed maps with an enclosing-scope
// pointer — generalised from a single-locale compile-time symbol table
// into a namespace tree with one derived, cached SymbolTable per locale.
package scope

import (
	"github.com/boolexpr/booleano-go/pkg/ast"
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/ident"
)

// Binding attaches a host-defined variable or function to a global name,
// with optional per-locale localised names (spec.md §3). A Binding is
// unowned when constructed; attaching it to a Namespace claims exclusive
// ownership, and re-attaching the same Binding elsewhere is an error.
type Binding struct {
	GlobalName      string
	VariableOperand ast.Operand             // non-nil for a variable binding
	Function        *ast.FunctionDescriptor // non-nil for a function binding
	localised       map[string]string       // locale tag -> localised name
	owner           *Namespace
}

// NewVariableBinding validates operand (spec.md's BadOperand checks) and
// wraps it as a variable binding.
func NewVariableBinding(globalName string, operand ast.Operand, localised map[string]string) (*Binding, error) {
	if err := ast.ValidateOperand(operand); err != nil {
		return nil, err
	}
	return &Binding{
		GlobalName:      ident.Fold(globalName),
		VariableOperand: operand,
		localised:       foldLocaleKeys(localised),
	}, nil
}

// NewFunctionBinding validates the function descriptor and wraps it as a
// function binding.
func NewFunctionBinding(globalName string, descriptor *ast.FunctionDescriptor, localised map[string]string) (*Binding, error) {
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}
	return &Binding{
		GlobalName: ident.Fold(globalName),
		Function:   descriptor,
		localised:  foldLocaleKeys(localised),
	}, nil
}

func foldLocaleKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// IsFunction reports whether this binding is a function (as opposed to a
// variable) binding.
func (b *Binding) IsFunction() bool { return b.Function != nil }

// Operand returns the bound variable's host operand. It is nil for a
// function binding. Used by pkg/parser to build *ast.BoundVariable nodes.
func (b *Binding) Operand() ast.Operand { return b.VariableOperand }

// FunctionDescriptor returns the bound function's descriptor. It is nil
// for a variable binding. Used by pkg/parser to build *ast.BoundFunctionCall
// nodes.
func (b *Binding) FunctionDescriptor() *ast.FunctionDescriptor { return b.Function }

// LocalisedName returns the name this binding is exposed under for locale,
// falling back to GlobalName when no localisation is registered (spec.md
// §4.6 "Localised views").
func (b *Binding) LocalisedName(locale ident.Locale) string {
	if locale.IsZero() {
		return b.GlobalName
	}
	if name, ok := b.localised[locale.String()]; ok {
		return name
	}
	return b.GlobalName
}

func (b *Binding) attach(owner *Namespace) error {
	if b.owner != nil {
		return boolerr.New(boolerr.Scope, "binding %q is already attached to a namespace", b.GlobalName)
	}
	b.owner = owner
	return nil
}
