package datatype_test

import (
	"testing"

	"github.com/boolexpr/booleano-go/pkg/datatype"
)

func TestTagsString(t *testing.T) {
	tags := datatype.Tags(datatype.Boolean).With(datatype.Number)
	if got, want := tags.String(), "Boolean|Number"; got != want {
		t.Errorf("Tags.String() = %q, want %q", got, want)
	}
	if got, want := datatype.Tags(0).String(), "none"; got != want {
		t.Errorf("Tags(0).String() = %q, want %q", got, want)
	}
}

func TestTagsHas(t *testing.T) {
	tags := datatype.Tags(datatype.String).With(datatype.Set)
	if !tags.Has(datatype.String) || !tags.Has(datatype.Set) {
		t.Fatal("expected String and Set tags present")
	}
	if tags.Has(datatype.Boolean) || tags.Has(datatype.Number) {
		t.Fatal("did not expect Boolean or Number tags")
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b datatype.Value
		want bool
	}{
		{"same number", datatype.Value{Tag: datatype.Number, Num: 3}, datatype.Value{Tag: datatype.Number, Num: 3}, true},
		{"different number", datatype.Value{Tag: datatype.Number, Num: 3}, datatype.Value{Tag: datatype.Number, Num: 4}, false},
		{"different tag", datatype.Value{Tag: datatype.Number, Num: 3}, datatype.Value{Tag: datatype.String, Str: "3"}, false},
		{"same string", datatype.Value{Tag: datatype.String, Str: "a"}, datatype.Value{Tag: datatype.String, Str: "a"}, true},
		{"same bool", datatype.Value{Tag: datatype.Boolean, Bool: true}, datatype.Value{Tag: datatype.Boolean, Bool: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func numSet(vals ...float64) datatype.Value {
	elems := make([]datatype.Value, len(vals))
	for i, v := range vals {
		elems[i] = datatype.Value{Tag: datatype.Number, Num: v}
	}
	return datatype.Value{Tag: datatype.Set, Elems: elems}
}

func TestValueEqualSetAsMultiset(t *testing.T) {
	a := numSet(1, 2, 3)
	b := numSet(3, 1, 2)
	if !a.Equal(b) {
		t.Fatal("expected sets with same elements in different order to be equal")
	}
	c := numSet(1, 2)
	if a.Equal(c) {
		t.Fatal("expected sets of different cardinality to be unequal")
	}
}

func TestValueContains(t *testing.T) {
	s := numSet(1, 2, 3)
	if !s.Contains(datatype.Value{Tag: datatype.Number, Num: 2}) {
		t.Fatal("expected set to contain 2")
	}
	if s.Contains(datatype.Value{Tag: datatype.Number, Num: 5}) {
		t.Fatal("did not expect set to contain 5")
	}
}

func TestValueIsSupersetOf(t *testing.T) {
	super := numSet(1, 2, 3, 4)
	sub := numSet(2, 3)
	if !super.IsSupersetOf(sub) {
		t.Fatal("expected superset relationship to hold")
	}
	notSub := numSet(2, 5)
	if super.IsSupersetOf(notSub) {
		t.Fatal("did not expect superset relationship to hold")
	}
}

func TestMismatchError(t *testing.T) {
	err := datatype.MismatchError("x", datatype.Number)
	if err == nil {
		t.Fatal("expected non-nil error")
	}
}
