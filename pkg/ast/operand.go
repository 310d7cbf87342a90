package ast

import (
	"reflect"

	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/datatype"
)

// Operand is implemented by host-defined variable behaviour: it declares
// which datatype capabilities it has and, for the Equal operator, which
// one is read when this operand acts as master (spec.md §3 "Bound
// variable: an object defined by the host exposing one or more datatype
// tags plus its evaluation behaviour"). The host additionally implements
// whichever of datatype.BooleanReadable/NumberReadable/StringReadable/
// SetReadable correspond to the tags it declares.
type Operand interface {
	Tags() datatype.Tags
	PreferredTag() datatype.Tag
}

// ValidateOperand checks that op implements the read contract for every
// tag it declares, raising BadOperand otherwise (spec.md §7). Hosts should
// call this once, at registration time via scope.NewVariableBinding, rather than
// on every evaluation.
func ValidateOperand(op Operand) error {
	tags := op.Tags()
	if tags == 0 {
		return boolerr.New(boolerr.BadOperand, "operand declares no datatype capability")
	}
	if tags.Has(datatype.Boolean) {
		if _, ok := op.(datatype.BooleanReadable); !ok {
			return missingCapability(datatype.Boolean)
		}
	}
	if tags.Has(datatype.Number) {
		if _, ok := op.(datatype.NumberReadable); !ok {
			return missingCapability(datatype.Number)
		}
	}
	if tags.Has(datatype.String) {
		if _, ok := op.(datatype.StringReadable); !ok {
			return missingCapability(datatype.String)
		}
	}
	if tags.Has(datatype.Set) {
		if _, ok := op.(datatype.SetReadable); !ok {
			return missingCapability(datatype.Set)
		}
	}
	if !tags.Has(op.PreferredTag()) {
		return boolerr.New(boolerr.BadOperand, "preferred tag %s is not among declared tags %s", op.PreferredTag(), tags)
	}
	return nil
}

func missingCapability(tag datatype.Tag) error {
	return boolerr.New(boolerr.BadOperand, "operand declares %s but does not implement its read method", tag)
}

// BoundVariable is a leaf wrapping a host-defined Operand, identified by a
// lower-cased name and namespace path (used by Converters and error
// messages; evaluation never consults the name/path, only Impl).
type BoundVariable struct {
	BaseLeaf
	Name          string
	NamespacePath []string
	Impl          Operand
}

// NewBoundVariable wraps a validated host Operand. Call ValidateOperand
// before this if the Operand comes straight from host code;
// scope.NewVariableBinding does this automatically when it creates a binding.
func NewBoundVariable(name string, namespacePath []string, impl Operand) *BoundVariable {
	return &BoundVariable{Name: lowerFold(name), NamespacePath: lowerFoldAll(namespacePath), Impl: impl}
}

func (b *BoundVariable) Kind() Kind                 { return KindBoundVariable }
func (b *BoundVariable) Tags() datatype.Tags        { return b.Impl.Tags() }
func (b *BoundVariable) PreferredTag() datatype.Tag { return b.Impl.PreferredTag() }

func (b *BoundVariable) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	br, ok := b.Impl.(datatype.BooleanReadable)
	if !ok {
		return false, badOperand(b, datatype.Boolean)
	}
	return br.ReadAsBoolean(ctx)
}

func (b *BoundVariable) ReadAsNumber(ctx datatype.Context) (float64, error) {
	nr, ok := b.Impl.(datatype.NumberReadable)
	if !ok {
		return 0, badOperand(b, datatype.Number)
	}
	return nr.ReadAsNumber(ctx)
}

func (b *BoundVariable) ReadAsString(ctx datatype.Context) (string, error) {
	sr, ok := b.Impl.(datatype.StringReadable)
	if !ok {
		return "", badOperand(b, datatype.String)
	}
	return sr.ReadAsString(ctx)
}

func (b *BoundVariable) ReadAsSet(ctx datatype.Context) ([]datatype.Value, error) {
	setr, ok := b.Impl.(datatype.SetReadable)
	if !ok {
		return nil, badOperand(b, datatype.Set)
	}
	return setr.ReadAsSet(ctx)
}

// EqualsValue forwards to the Impl's own Equaler, if it has one.
func (b *BoundVariable) EqualsValue(v datatype.Value) bool {
	if eq, ok := b.Impl.(datatype.Equaler); ok {
		return eq.EqualsValue(v)
	}
	return false
}

// Equals compares bound variables by name, namespace path, and underlying
// Impl identity: two bindings to the same host object are equal, but two
// distinct host objects that happen to produce the same values are not
// (the host object's identity, not its momentary value, is what the tree
// was built against).
func (b *BoundVariable) Equals(other Node) bool {
	o, ok := other.(*BoundVariable)
	return ok && o.Name == b.Name && pathEqual(o.NamespacePath, b.NamespacePath) && sameImpl(o.Impl, b.Impl)
}

// sameImpl compares two Operand implementations by identity. Hosts
// register variables as pointers to their own state, so pointer equality
// is the natural identity check; a non-pointer Impl is never equal to
// another instance, which is conservative but panic-free for arbitrary
// host types.
func sameImpl(a, b Operand) bool {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Kind() == reflect.Ptr && bv.Kind() == reflect.Ptr {
		return av.Pointer() == bv.Pointer()
	}
	return false
}

func (b *BoundVariable) fold(conv Converter) any {
	return conv.Variable(b.Name, b.NamespacePath)
}
