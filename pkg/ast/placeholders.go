package ast

import (
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/datatype"
)

// placeholderTags is deliberately "every capability": a placeholder has no
// binding to check against, so it must never block an operator's
// construction-time datatype validation (spec.md §4.5 — convertible mode
// resolves nothing). Any attempt to actually read one is a programmer
// error, not a valid parse: see the ReadAs* stubs below.
const placeholderTags = datatype.Tags(datatype.Boolean | datatype.Number | datatype.String | datatype.Set)

func errPlaceholderRead(kind string) error {
	return boolerr.New(boolerr.InvalidOperation,
		"%s is unresolved; convertible trees must be traversed with a Converter, not evaluated", kind)
}

// PlaceholderVariable is an unresolved variable reference: a lower-cased
// name plus a lower-cased namespace path, carried by convertible trees
// without being bound to any host object (spec.md §3).
type PlaceholderVariable struct {
	BaseLeaf
	Name          string
	NamespacePath []string
}

// NewPlaceholderVariable lower-cases name and each namespace segment per
// spec.md's identifier-normalisation rule.
func NewPlaceholderVariable(name string, namespacePath []string) *PlaceholderVariable {
	return &PlaceholderVariable{Name: lowerFold(name), NamespacePath: lowerFoldAll(namespacePath)}
}

func (p *PlaceholderVariable) Kind() Kind                 { return KindPlaceholderVariable }
func (p *PlaceholderVariable) Tags() datatype.Tags        { return placeholderTags }
func (p *PlaceholderVariable) PreferredTag() datatype.Tag { return datatype.Boolean }

func (p *PlaceholderVariable) ReadAsBoolean(datatype.Context) (bool, error) {
	return false, errPlaceholderRead("placeholder variable")
}
func (p *PlaceholderVariable) ReadAsNumber(datatype.Context) (float64, error) {
	return 0, errPlaceholderRead("placeholder variable")
}
func (p *PlaceholderVariable) ReadAsString(datatype.Context) (string, error) {
	return "", errPlaceholderRead("placeholder variable")
}
func (p *PlaceholderVariable) ReadAsSet(datatype.Context) ([]datatype.Value, error) {
	return nil, errPlaceholderRead("placeholder variable")
}

func (p *PlaceholderVariable) Equals(other Node) bool {
	o, ok := other.(*PlaceholderVariable)
	return ok && o.Name == p.Name && pathEqual(o.NamespacePath, p.NamespacePath)
}

func (p *PlaceholderVariable) fold(conv Converter) any {
	return conv.Variable(p.Name, p.NamespacePath)
}

// PlaceholderFunction is an unresolved function call: name, namespace
// path, and already-parsed argument nodes (themselves possibly
// placeholders).
type PlaceholderFunction struct {
	BaseBranch
	Name          string
	NamespacePath []string
	Arguments     []Node
}

func NewPlaceholderFunction(name string, namespacePath []string, args []Node) *PlaceholderFunction {
	return &PlaceholderFunction{Name: lowerFold(name), NamespacePath: lowerFoldAll(namespacePath), Arguments: args}
}

func (p *PlaceholderFunction) Kind() Kind                 { return KindPlaceholderFunction }
func (p *PlaceholderFunction) Tags() datatype.Tags        { return placeholderTags }
func (p *PlaceholderFunction) PreferredTag() datatype.Tag { return datatype.Boolean }

func (p *PlaceholderFunction) ReadAsBoolean(datatype.Context) (bool, error) {
	return false, errPlaceholderRead("placeholder function")
}
func (p *PlaceholderFunction) ReadAsNumber(datatype.Context) (float64, error) {
	return 0, errPlaceholderRead("placeholder function")
}
func (p *PlaceholderFunction) ReadAsString(datatype.Context) (string, error) {
	return "", errPlaceholderRead("placeholder function")
}
func (p *PlaceholderFunction) ReadAsSet(datatype.Context) ([]datatype.Value, error) {
	return nil, errPlaceholderRead("placeholder function")
}

func (p *PlaceholderFunction) Equals(other Node) bool {
	o, ok := other.(*PlaceholderFunction)
	if !ok || o.Name != p.Name || !pathEqual(o.NamespacePath, p.NamespacePath) || len(o.Arguments) != len(p.Arguments) {
		return false
	}
	for i, a := range p.Arguments {
		if !a.Equals(o.Arguments[i]) {
			return false
		}
	}
	return true
}

func (p *PlaceholderFunction) fold(conv Converter) any {
	args := make([]any, len(p.Arguments))
	for i, a := range p.Arguments {
		args[i] = a.fold(conv)
	}
	return conv.Function(p.Name, p.NamespacePath, args)
}

func pathEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
