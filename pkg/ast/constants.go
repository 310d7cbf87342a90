package ast

import "github.com/boolexpr/booleano-go/pkg/datatype"

// ConstantString is a literal string leaf.
type ConstantString struct {
	BaseLeaf
	Value string
}

func NewConstantString(v string) *ConstantString { return &ConstantString{Value: v} }

func (c *ConstantString) Kind() Kind                    { return KindConstantString }
func (c *ConstantString) Tags() datatype.Tags           { return datatype.Tags(datatype.String) }
func (c *ConstantString) PreferredTag() datatype.Tag    { return datatype.String }
func (c *ConstantString) ReadAsString(datatype.Context) (string, error) { return c.Value, nil }

func (c *ConstantString) Equals(other Node) bool {
	o, ok := other.(*ConstantString)
	return ok && o.Value == c.Value
}

func (c *ConstantString) fold(conv Converter) any { return conv.String(c.Value) }

// ConstantNumber is a literal real-number leaf.
type ConstantNumber struct {
	BaseLeaf
	Value float64
}

func NewConstantNumber(v float64) *ConstantNumber { return &ConstantNumber{Value: v} }

func (c *ConstantNumber) Kind() Kind                 { return KindConstantNumber }
func (c *ConstantNumber) Tags() datatype.Tags        { return datatype.Tags(datatype.Number) }
func (c *ConstantNumber) PreferredTag() datatype.Tag { return datatype.Number }
func (c *ConstantNumber) ReadAsNumber(datatype.Context) (float64, error) { return c.Value, nil }

func (c *ConstantNumber) Equals(other Node) bool {
	o, ok := other.(*ConstantNumber)
	return ok && o.Value == c.Value
}

func (c *ConstantNumber) fold(conv Converter) any { return conv.Number(c.Value) }

// ConstantSet is a literal set of operand nodes. Per spec.md §3 it is a
// branch (its elements are themselves operation nodes, possibly nested
// sets), and duplicates collapse on construction.
type ConstantSet struct {
	BaseBranch
	Elements []Node
}

// NewConstantSet builds a set constant, discarding elements structurally
// equal to one already kept (spec.md: "duplicates collapse on
// construction").
func NewConstantSet(elements []Node) *ConstantSet {
	kept := make([]Node, 0, len(elements))
	for _, e := range elements {
		dup := false
		for _, k := range kept {
			if k.Equals(e) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, e)
		}
	}
	return &ConstantSet{Elements: kept}
}

func (c *ConstantSet) Kind() Kind                 { return KindConstantSet }
func (c *ConstantSet) Tags() datatype.Tags        { return datatype.Tags(datatype.Set) }
func (c *ConstantSet) PreferredTag() datatype.Tag { return datatype.Set }

func (c *ConstantSet) ReadAsSet(ctx datatype.Context) ([]datatype.Value, error) {
	out := make([]datatype.Value, len(c.Elements))
	for i, e := range c.Elements {
		v, err := valueOf(e, e.PreferredTag(), ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *ConstantSet) Equals(other Node) bool {
	o, ok := other.(*ConstantSet)
	if !ok || len(o.Elements) != len(c.Elements) {
		return false
	}
	used := make([]bool, len(o.Elements))
	for _, e := range c.Elements {
		found := false
		for j, oe := range o.Elements {
			if used[j] {
				continue
			}
			if e.Equals(oe) {
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

func (c *ConstantSet) fold(conv Converter) any {
	elems := make([]any, len(c.Elements))
	for i, e := range c.Elements {
		elems[i] = e.fold(conv)
	}
	return conv.Set(elems)
}
