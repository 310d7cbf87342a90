package sqlconvert_test

import (
	"testing"

	"github.com/boolexpr/booleano-go/pkg/ast"
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/grammar"
	"github.com/boolexpr/booleano-go/pkg/parser"
	"github.com/boolexpr/booleano-go/pkg/sqlconvert"
)

func columns() sqlconvert.MapFunc {
	return func(namespacePath []string, name string) (string, error) {
		known := map[string]string{"name": "users.name", "age": "users.age", "role": "users.role"}
		col, ok := known[name]
		if !ok {
			return "", boolerr.New(boolerr.Conversion, "unmapped column %q", name)
		}
		return col, nil
	}
}

func convertible(t *testing.T, src string) ast.Node {
	t.Helper()
	g, err := grammar.NewBuilder().Build()
	if err != nil {
		t.Fatal(err)
	}
	root, err := parser.ParseConvertible(g, src)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestConverterEqual(t *testing.T) {
	root := convertible(t, `name == "Ada"`)
	c := sqlconvert.New(columns())
	got, err := ast.ConvertTyped[string](root, c)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Err(); err != nil {
		t.Fatal(err)
	}
	if got != "users.name = 'Ada'" {
		t.Fatalf("got %q", got)
	}
}

func TestConverterAndOr(t *testing.T) {
	root := convertible(t, `name == "Ada" & age > 30`)
	c := sqlconvert.New(columns())
	got, err := ast.ConvertTyped[string](root, c)
	if err != nil {
		t.Fatal(err)
	}
	want := "(users.name = 'Ada' AND users.age > 30)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConverterXorExpandsToBooleanAlgebra(t *testing.T) {
	root := convertible(t, `name == "Ada" ^ age == 30`)
	c := sqlconvert.New(columns())
	got, err := ast.ConvertTyped[string](root, c)
	if err != nil {
		t.Fatal(err)
	}
	want := "((users.name = 'Ada' AND NOT users.age = 30) OR (NOT users.name = 'Ada' AND users.age = 30))"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConverterBelongsToRendersAsIN(t *testing.T) {
	root := convertible(t, `role ∈ {"admin", "staff"}`)
	c := sqlconvert.New(columns())
	got, err := ast.ConvertTyped[string](root, c)
	if err != nil {
		t.Fatal(err)
	}
	want := "users.role IN ('admin', 'staff')"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConverterIsSubsetRecordsConversionError(t *testing.T) {
	root := convertible(t, `{"admin"} ⊂ {"admin", "staff"}`)
	c := sqlconvert.New(columns())
	_, _ = ast.ConvertTyped[string](root, c)
	if !boolerr.Is(c.Err(), boolerr.Conversion) {
		t.Fatalf("expected a recorded Conversion error, got %v", c.Err())
	}
}

func TestConverterUnmappedColumnRecordsError(t *testing.T) {
	root := convertible(t, `unknown_field == "x"`)
	c := sqlconvert.New(columns())
	_, _ = ast.ConvertTyped[string](root, c)
	if !boolerr.Is(c.Err(), boolerr.Conversion) {
		t.Fatalf("expected a recorded Conversion error for an unmapped column, got %v", c.Err())
	}
}

func TestConverterStringEscapesQuotes(t *testing.T) {
	root := convertible(t, `name == "O'Brien"`)
	c := sqlconvert.New(columns())
	got, err := ast.ConvertTyped[string](root, c)
	if err != nil {
		t.Fatal(err)
	}
	want := "users.name = 'O''Brien'"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
