package ast

import (
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/datatype"
)

// FunctionEvalFunc implements a bound function's behaviour: given the
// names already bound to argument nodes and the tag the caller wants back,
// it produces a Value. Implementations typically evaluate the argument
// nodes they need via the host's own logic.
type FunctionEvalFunc func(args map[string]Node, tag datatype.Tag, ctx datatype.Context) (datatype.Value, error)

// FunctionDescriptor is the declarative replacement for the source
// library's metaclass-driven function declarations (spec.md §9): a plain
// struct a call site consults, validated once at host-registration time
// rather than via type-system metaprogramming.
type FunctionDescriptor struct {
	Name string
	// Required lists required parameter names, in declaration order.
	Required []string
	// OptionalOrder lists optional parameter names, in declaration order;
	// OptionalDefaults maps each to its default operand node.
	OptionalOrder    []string
	OptionalDefaults map[string]Node
	// ArgTypes optionally restricts a parameter to operands implementing
	// a given tag. Parameters absent from this map accept any operand.
	ArgTypes map[string]datatype.Tag
	// Commutative functions require every ArgTypes entry to declare the
	// same tag (spec.md §4.2) and compare their bound arguments as a
	// multiset rather than by parameter name.
	Commutative  bool
	ResultTags   datatype.Tags
	Preferred    datatype.Tag
	Eval         FunctionEvalFunc
}

// Validate checks the descriptor's internal consistency, raising
// BadFunction for the cases enumerated in spec.md §4.2/§7: duplicate
// parameter names, a non-node default, a type declared for an unknown
// parameter, or a commutative function with heterogeneous/absent argument
// types.
func (d *FunctionDescriptor) Validate() error {
	seen := make(map[string]bool, len(d.Required)+len(d.OptionalOrder))
	for _, name := range d.Required {
		if seen[name] {
			return boolerr.New(boolerr.BadFunction, "duplicate parameter name %q", name)
		}
		seen[name] = true
	}
	for _, name := range d.OptionalOrder {
		if seen[name] {
			return boolerr.New(boolerr.BadFunction, "duplicate parameter name %q", name)
		}
		seen[name] = true
		def, ok := d.OptionalDefaults[name]
		if !ok || def == nil {
			return boolerr.New(boolerr.BadFunction, "optional parameter %q has no default operand", name)
		}
	}
	for name := range d.ArgTypes {
		if !seen[name] {
			return boolerr.New(boolerr.BadFunction, "type declared for unknown parameter %q", name)
		}
	}
	if d.Commutative {
		if len(d.ArgTypes) != len(seen) {
			return boolerr.New(boolerr.BadFunction, "commutative function %q must declare a type for every parameter", d.Name)
		}
		var common datatype.Tag
		first := true
		for _, t := range d.ArgTypes {
			if first {
				common = t
				first = false
				continue
			}
			if t != common {
				return boolerr.New(boolerr.BadFunction, "commutative function %q has heterogeneous argument types", d.Name)
			}
		}
	}
	if d.Eval == nil {
		return boolerr.New(boolerr.BadFunction, "function %q has no evaluation behaviour", d.Name)
	}
	return nil
}

// paramOrder returns required names followed by optional names, the order
// positional arguments bind in.
func (d *FunctionDescriptor) paramOrder() []string {
	out := make([]string, 0, len(d.Required)+len(d.OptionalOrder))
	out = append(out, d.Required...)
	out = append(out, d.OptionalOrder...)
	return out
}

// BoundFunctionCall is the invocation of a host-declared function: each
// parameter name is bound either to a caller-supplied argument or a cloned
// declared default (spec.md §3 "Function arity").
type BoundFunctionCall struct {
	BaseBranch
	Name          string
	NamespacePath []string
	Descriptor    *FunctionDescriptor
	Args          map[string]Node
	order         []string // parameter order, for deterministic String()/iteration
}

// NewBoundFunctionCall binds positional to the descriptor's parameters,
// filling missing optional positions from cloned defaults.
func NewBoundFunctionCall(name string, namespacePath []string, d *FunctionDescriptor, positional []Node) (*BoundFunctionCall, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	names := d.paramOrder()
	if len(positional) < len(d.Required) {
		return nil, boolerr.New(boolerr.BadCall, "function %q expects at least %d argument(s), got %d", d.Name, len(d.Required), len(positional))
	}
	if len(positional) > len(names) {
		return nil, boolerr.New(boolerr.BadCall, "function %q expects at most %d argument(s), got %d", d.Name, len(names), len(positional))
	}

	args := make(map[string]Node, len(names))
	for i, pname := range names {
		var arg Node
		if i < len(positional) {
			arg = positional[i]
			if arg == nil {
				return nil, boolerr.New(boolerr.BadCall, "argument %q of function %q is not an operand", pname, d.Name)
			}
		} else {
			arg = clone(d.OptionalDefaults[pname])
		}
		if want, ok := d.ArgTypes[pname]; ok && !arg.Tags().Has(want) {
			return nil, boolerr.New(boolerr.BadCall, "argument %q of function %q must implement %s", pname, d.Name, want)
		}
		args[pname] = arg
	}

	return &BoundFunctionCall{
		Name:          lowerFold(name),
		NamespacePath: lowerFoldAll(namespacePath),
		Descriptor:    d,
		Args:          args,
		order:         names,
	}, nil
}

func (f *BoundFunctionCall) Kind() Kind                 { return KindBoundFunctionCall }
func (f *BoundFunctionCall) Tags() datatype.Tags        { return f.Descriptor.ResultTags }
func (f *BoundFunctionCall) PreferredTag() datatype.Tag { return f.Descriptor.Preferred }

func (f *BoundFunctionCall) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	v, err := f.read(datatype.Boolean, ctx)
	return v.Bool, err
}
func (f *BoundFunctionCall) ReadAsNumber(ctx datatype.Context) (float64, error) {
	v, err := f.read(datatype.Number, ctx)
	return v.Num, err
}
func (f *BoundFunctionCall) ReadAsString(ctx datatype.Context) (string, error) {
	v, err := f.read(datatype.String, ctx)
	return v.Str, err
}
func (f *BoundFunctionCall) ReadAsSet(ctx datatype.Context) ([]datatype.Value, error) {
	v, err := f.read(datatype.Set, ctx)
	return v.Elems, err
}

func (f *BoundFunctionCall) read(tag datatype.Tag, ctx datatype.Context) (datatype.Value, error) {
	if !f.Tags().Has(tag) {
		return datatype.Value{}, boolerr.New(boolerr.InvalidOperation, "function %q does not implement %s", f.Name, tag)
	}
	return f.Descriptor.Eval(f.Args, tag, ctx)
}

func (f *BoundFunctionCall) Equals(other Node) bool {
	o, ok := other.(*BoundFunctionCall)
	if !ok || o.Descriptor != f.Descriptor || o.Name != f.Name {
		return false
	}
	if f.Descriptor.Commutative {
		return sameMultiset(f.argValues(), o.argValues())
	}
	if len(f.Args) != len(o.Args) {
		return false
	}
	for name, arg := range f.Args {
		oa, ok := o.Args[name]
		if !ok || !arg.Equals(oa) {
			return false
		}
	}
	return true
}

func (f *BoundFunctionCall) argValues() []Node {
	out := make([]Node, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.Args[name])
	}
	return out
}

func sameMultiset(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, av := range a {
		found := false
		for j, bv := range b {
			if used[j] {
				continue
			}
			if av.Equals(bv) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *BoundFunctionCall) fold(conv Converter) any {
	args := make([]any, len(f.order))
	for i, name := range f.order {
		args[i] = f.Args[name].fold(conv)
	}
	return conv.Function(f.Name, f.NamespacePath, args)
}
