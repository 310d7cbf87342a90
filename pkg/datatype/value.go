package datatype

// Value is a tagged union holding the result of reading an operand as one
// of its capability tags. It is the common currency operators use to
// compare operands without needing to know each other's concrete Go type.
type Value struct {
	Tag   Tag
	Bool  bool
	Num   float64
	Str   string
	Elems []Value // populated when Tag == Set
}

// Equal compares two values for equality. Values of different tags are
// never equal — spec.md's Equal/NotEqual read the slave in the master's
// preferred tag before comparing, so by the time Equal is called both
// sides already share a tag.
func (v Value) Equal(other Value) bool {
	if v.Tag != other.Tag {
		return false
	}
	switch v.Tag {
	case Boolean:
		return v.Bool == other.Bool
	case Number:
		return v.Num == other.Num
	case String:
		return v.Str == other.Str
	case Set:
		return setEqual(v.Elems, other.Elems)
	default:
		return false
	}
}

// setEqual compares two sets as multisets: same cardinality, and every
// element of a has a distinct match in b (duplicates already collapsed at
// set-construction time per spec.md §3, so this reduces to set equality).
func setEqual(a, b []Value) bool {
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
			if av.Equal(bv) {
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

// Contains reports whether item appears in the set s (spec.md's
// BelongsTo/contains semantics).
func (s Value) Contains(item Value) bool {
	for _, e := range s.Elems {
		if e.Equal(item) {
			return true
		}
	}
	return false
}

// IsSupersetOf reports whether s contains every element of sub (spec.md's
// IsSubset/is_superset_of semantics).
func (s Value) IsSupersetOf(sub Value) bool {
	for _, e := range sub.Elems {
		if !s.Contains(e) {
			return false
		}
	}
	return true
}
