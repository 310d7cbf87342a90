// Package datatype defines the capability tags operand nodes may implement
// and the per-tag read contracts a host's variables and constants satisfy.
//
// A tag is a capability, not an exclusive type: a node may implement more
// than one tag at once (a variable yielding a traffic-light state is both
// String and Boolean), the same way the teacher's internal/types.Type
// hierarchy lets a value satisfy more than one compatibility predicate.
package datatype

import "github.com/boolexpr/booleano-go/pkg/boolerr"

// Tag is a single datatype capability.
type Tag uint8

const (
	Boolean Tag = 1 << iota
	Number
	String
	Set
)

// String renders a tag name for error messages.
func (t Tag) String() string {
	switch t {
	case Boolean:
		return "Boolean"
	case Number:
		return "Number"
	case String:
		return "String"
	case Set:
		return "Set"
	default:
		return "Unknown"
	}
}

// Tags is a bitset of capabilities.
type Tags Tag

// Has reports whether the set contains tag.
func (t Tags) Has(tag Tag) bool { return Tag(t)&tag != 0 }

// With returns a new set with tag added.
func (t Tags) With(tag Tag) Tags { return Tags(Tag(t) | tag) }

func (t Tags) String() string {
	names := make([]string, 0, 4)
	for _, tag := range []Tag{Boolean, Number, String, Set} {
		if t.Has(tag) {
			names = append(names, tag.String())
		}
	}
	if len(names) == 0 {
		return "none"
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "|" + n
	}
	return out
}

// Context is the runtime mapping from bound variable/function names to
// values, supplied by the host at evaluation time. It is read-only from the
// library's perspective; its mutability and thread-safety are the host's
// concern (see spec.md §5).
type Context interface {
	// Lookup returns the value currently bound to name, or ok=false if
	// the host has nothing bound under that name. Bound variables
	// typically ignore this and read their own captured state instead;
	// Context exists for host-defined variable implementations that
	// source values from an external mapping (e.g. pkg/jsoncontext).
	Lookup(name string) (any, bool)
}

// NumberReadable is the read contract for the Number tag, whose domain is
// a finite real scalar. float64 is used rather than a decimal type because spec.md §3
// requires no arithmetic beyond comparison — precision loss from
// arithmetic operators is a non-issue since none exist.
type NumberReadable interface {
	ReadAsNumber(ctx Context) (float64, error)
}

type StringReadable interface {
	ReadAsString(ctx Context) (string, error)
}

type BooleanReadable interface {
	ReadAsBoolean(ctx Context) (bool, error)
}

// SetReadable yields a finite collection of operand values, already reduced
// to Value so set membership/subset tests never need to know the concrete
// Go type an element came from.
type SetReadable interface {
	ReadAsSet(ctx Context) ([]Value, error)
}

// Equaler lets a bound variable override the default tag-matched equality
// in Value.Equal — for example a case-insensitive string comparison. It is
// consulted by the Equal/NotEqual operator before falling back to
// Value.Equal.
type Equaler interface {
	EqualsValue(v Value) bool
}

// Comparer lets a bound variable override the default numeric ordering
// used by LessThan/GreaterThan.
type Comparer interface {
	LessThanValue(v float64) bool
	GreaterThanValue(v float64) bool
}

// MismatchError is the InvalidOperation raised when a bound value cannot
// satisfy the tag requested of it at evaluation time.
func MismatchError(name string, wanted Tag) *boolerr.Error {
	return boolerr.New(boolerr.InvalidOperation, "%q cannot be read as %s", name, wanted)
}
