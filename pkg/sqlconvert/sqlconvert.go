// Package sqlconvert is a reference ast.Converter that renders a
// ConvertibleTree as a SQL WHERE-clause fragment — the host use case
// named in spec.md §1 ("compile a user-facing filter into a backend
// query"). It is grounded on the teacher's gen-visitor-style walkers,
// generalised from a mutating visitor into a pure post-order fold that
// returns the accumulated string at each node.
package sqlconvert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boolexpr/booleano-go/pkg/ast"
	"github.com/boolexpr/booleano-go/pkg/boolerr"
)

// ColumnMapper resolves a boolean-expression variable/function name
// (plus namespace path) to the SQL column or expression it reads from.
// Hosts typically back this with a fixed name->column table; an error
// for an unmapped name does not stop the fold: Converter records the first
// one and returns it from Err.
type ColumnMapper interface {
	Column(namespacePath []string, name string) (string, error)
}

// MapFunc adapts a plain function to a ColumnMapper.
type MapFunc func(namespacePath []string, name string) (string, error)

func (f MapFunc) Column(namespacePath []string, name string) (string, error) { return f(namespacePath, name) }

// Converter renders nodes as SQL fragments (ast.Converter's fold
// contract). Every method returns a string; errors from an unmapped
// column are recorded on the first occurrence and surfaced by Err after
// the fold completes, since ast.Converter's methods cannot themselves
// return an error.
type Converter struct {
	Columns ColumnMapper
	err     error
}

// New builds a Converter backed by the given column mapping.
func New(columns ColumnMapper) *Converter { return &Converter{Columns: columns} }

// Err returns the first error recorded during the fold, if any. Call this
// after ast.Convert/ast.ConvertTyped returns.
func (c *Converter) Err() error { return c.err }

func (c *Converter) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Converter) column(namespacePath []string, name string) string {
	col, err := c.Columns.Column(namespacePath, name)
	if err != nil {
		c.fail(err)
		return name
	}
	return col
}

func (c *Converter) String(text string) any {
	escaped := strings.ReplaceAll(text, "'", "''")
	return "'" + escaped + "'"
}

func (c *Converter) Number(n float64) any {
	return strconv.FormatFloat(n, 'g', -1, 64)
}

func (c *Converter) Set(elements []any) any {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = toStr(e)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (c *Converter) Variable(name string, namespacePath []string) any {
	return c.column(namespacePath, name)
}

func (c *Converter) Function(name string, namespacePath []string, args []any) any {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = toStr(a)
	}
	fn, err := c.Columns.Column(namespacePath, name)
	if err != nil {
		fn = name
	}
	return fmt.Sprintf("%s(%s)", fn, strings.Join(parts, ", "))
}

func (c *Converter) Not(x any) any { return fmt.Sprintf("NOT (%s)", toStr(x)) }

func (c *Converter) And(master, slave any) any {
	return fmt.Sprintf("(%s AND %s)", toStr(master), toStr(slave))
}
func (c *Converter) Or(master, slave any) any {
	return fmt.Sprintf("(%s OR %s)", toStr(master), toStr(slave))
}
func (c *Converter) Xor(master, slave any) any {
	m, s := toStr(master), toStr(slave)
	return fmt.Sprintf("((%s AND NOT %s) OR (NOT %s AND %s))", m, s, m, s)
}

func (c *Converter) Equal(master, slave any) any {
	return fmt.Sprintf("%s = %s", toStr(master), toStr(slave))
}
func (c *Converter) NotEqual(master, slave any) any {
	return fmt.Sprintf("%s <> %s", toStr(master), toStr(slave))
}
func (c *Converter) LessThan(master, slave any) any {
	return fmt.Sprintf("%s < %s", toStr(master), toStr(slave))
}
func (c *Converter) GreaterThan(master, slave any) any {
	return fmt.Sprintf("%s > %s", toStr(master), toStr(slave))
}
func (c *Converter) LessEqual(master, slave any) any {
	return fmt.Sprintf("%s <= %s", toStr(master), toStr(slave))
}
func (c *Converter) GreaterEqual(master, slave any) any {
	return fmt.Sprintf("%s >= %s", toStr(master), toStr(slave))
}
func (c *Converter) BelongsTo(master, slave any) any {
	return fmt.Sprintf("%s IN %s", toStr(slave), toStr(master))
}
func (c *Converter) IsSubset(master, slave any) any {
	// No general SQL equivalent for subset-of; reference converters in
	// spec.md's host use case only ever filter by scalar membership, so
	// this records a conversion error rather than emitting invalid SQL.
	c.fail(boolerr.New(boolerr.Conversion, "sqlconvert: is_subset has no SQL rendering"))
	return fmt.Sprintf("/* unsupported: %s IS_SUBSET %s */", toStr(slave), toStr(master))
}

func toStr(v any) string {
	s, _ := v.(string)
	return s
}

var _ ast.Converter = (*Converter)(nil)
