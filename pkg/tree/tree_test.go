package tree_test

import (
	"testing"

	"github.com/boolexpr/booleano-go/pkg/ast"
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/tree"
)

func boolLeaf(v bool) ast.Node {
	n, err := ast.NewEqual(ast.NewConstantNumber(1), ast.NewConstantNumber(boolFloat(v)))
	if err != nil {
		panic(err)
	}
	return n
}

func boolFloat(v bool) float64 {
	if v {
		return 1
	}
	return 2
}

func TestNewEvaluableTreeRequiresBoolean(t *testing.T) {
	_, err := tree.NewEvaluableTree(ast.NewConstantNumber(5))
	if !boolerr.Is(err, boolerr.InvalidOperation) {
		t.Fatalf("expected InvalidOperation error, got %v", err)
	}
}

func TestEvaluableTreeEvaluate(t *testing.T) {
	et, err := tree.NewEvaluableTree(boolLeaf(true))
	if err != nil {
		t.Fatal(err)
	}
	got, err := et.Evaluate(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Fatal("expected true")
	}
}

func TestEvaluableTreeEquals(t *testing.T) {
	a, err := tree.NewEvaluableTree(boolLeaf(true))
	if err != nil {
		t.Fatal(err)
	}
	b, err := tree.NewEvaluableTree(boolLeaf(true))
	if err != nil {
		t.Fatal(err)
	}
	c, err := tree.NewEvaluableTree(boolLeaf(false))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equals(b) {
		t.Fatal("expected structurally equal trees to be Equals")
	}
	if a.Equals(c) {
		t.Fatal("did not expect different trees to be Equals")
	}
	if a.Equals(nil) {
		t.Fatal("did not expect Equals(nil) to be true")
	}
}

func TestEvaluableTreeRoot(t *testing.T) {
	leaf := boolLeaf(true)
	et, err := tree.NewEvaluableTree(leaf)
	if err != nil {
		t.Fatal(err)
	}
	if et.Root() != leaf {
		t.Fatal("expected Root to return the wrapped node")
	}
}

type stringConverter struct{}

func (stringConverter) String(text string) any { return text }
func (stringConverter) Number(n float64) any   { return n }
func (stringConverter) Set(elements []any) any { return elements }
func (stringConverter) Variable(name string, namespacePath []string) any { return name }
func (stringConverter) Function(name string, namespacePath []string, args []any) any { return name }
func (stringConverter) Not(x any) any             { return x }
func (stringConverter) And(m, s any) any          { return "and" }
func (stringConverter) Or(m, s any) any           { return "or" }
func (stringConverter) Xor(m, s any) any          { return "xor" }
func (stringConverter) Equal(m, s any) any        { return "eq" }
func (stringConverter) NotEqual(m, s any) any     { return "ne" }
func (stringConverter) LessThan(m, s any) any     { return "lt" }
func (stringConverter) GreaterThan(m, s any) any  { return "gt" }
func (stringConverter) LessEqual(m, s any) any    { return "le" }
func (stringConverter) GreaterEqual(m, s any) any { return "ge" }
func (stringConverter) BelongsTo(m, s any) any    { return "belongs_to" }
func (stringConverter) IsSubset(m, s any) any     { return "is_subset" }

var _ ast.Converter = stringConverter{}

func TestConvertibleTreeConvert(t *testing.T) {
	ct := tree.NewConvertibleTree(ast.NewConstantString("hello"))
	got := ct.Convert(stringConverter{})
	if got != "hello" {
		t.Fatalf("got %v, want %q", got, "hello")
	}
}

func TestConvertibleTreeConvertTyped(t *testing.T) {
	ct := tree.NewConvertibleTree(ast.NewConstantNumber(3.5))
	got, err := tree.ConvertTyped[float64](ct, stringConverter{})
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.5 {
		t.Fatalf("got %v, want 3.5", got)
	}
}

func TestConvertibleTreeConvertTypedMismatch(t *testing.T) {
	ct := tree.NewConvertibleTree(ast.NewConstantNumber(3.5))
	_, err := tree.ConvertTyped[string](ct, stringConverter{})
	if !boolerr.Is(err, boolerr.Conversion) {
		t.Fatalf("expected Conversion error, got %v", err)
	}
}

func TestConvertibleTreeEquals(t *testing.T) {
	a := tree.NewConvertibleTree(ast.NewConstantString("x"))
	b := tree.NewConvertibleTree(ast.NewConstantString("x"))
	c := tree.NewConvertibleTree(ast.NewConstantString("y"))
	if !a.Equals(b) {
		t.Fatal("expected structurally equal convertible trees to be Equals")
	}
	if a.Equals(c) {
		t.Fatal("did not expect different convertible trees to be Equals")
	}
	if a.Equals(nil) {
		t.Fatal("did not expect Equals(nil) to be true")
	}
}
