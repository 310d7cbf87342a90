// Package jsoncontext adapts an arbitrary JSON document into a
// datatype.Context and a family of host Operands, so a host can bind
// boolean-expression variables directly to paths in a JSON payload
// instead of writing bespoke Operand types for every field (spec.md §1's
// "host application" use case, generalised to a JSON-backed host).
//
// It is grounded on the teacher's internal/jsonvalue package: gjson/sjson
// path-addressed reads and writes over a raw JSON string rather than an
// intermediate decoded tree.
package jsoncontext

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/datatype"
)

// Context wraps a raw JSON document. It implements datatype.Context so a
// Variable can also be consulted through the generic Lookup path, but
// Variable normally re-reads gjson directly against the same document for
// its own declared path.
type Context struct {
	doc string
}

// New wraps a JSON document string. The document is not parsed eagerly;
// gjson reads paths lazily on demand.
func New(doc string) *Context { return &Context{doc: doc} }

// Lookup resolves path as a gjson dotted path expression.
func (c *Context) Lookup(path string) (any, bool) {
	res := gjson.Get(c.doc, path)
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

// With returns a copy of the document with path set to value, for hosts
// that need to patch a context before evaluation (overriding one field
// from a CLI flag, seeding a default before a lookup). It does not
// mutate c.
func (c *Context) With(path string, value any) (*Context, error) {
	doc, err := sjson.Set(c.doc, path, value)
	if err != nil {
		return nil, boolerr.New(boolerr.InvalidOperation, "setting %q: %v", path, err)
	}
	return &Context{doc: doc}, nil
}

// Variable is a host Operand reading one gjson path, declared with
// whichever datatype tags the caller knows the path's values to satisfy
// (spec.md's Operand: "an object defined by the host exposing one or more
// datatype tags plus its evaluation behaviour").
type Variable struct {
	Path      string
	tags      datatype.Tags
	preferred datatype.Tag
}

// NewVariable declares a JSON-path-backed variable. tags must be a
// non-empty subset of {Boolean, Number, String, Set}; preferred must be
// one of tags.
func NewVariable(path string, tags datatype.Tags, preferred datatype.Tag) *Variable {
	return &Variable{Path: path, tags: tags, preferred: preferred}
}

func (v *Variable) Tags() datatype.Tags        { return v.tags }
func (v *Variable) PreferredTag() datatype.Tag { return v.preferred }

func (v *Variable) lookup(ctx datatype.Context) (gjson.Result, error) {
	c, ok := ctx.(*Context)
	if !ok {
		return gjson.Result{}, boolerr.New(boolerr.InvalidOperation, "jsoncontext.Variable requires a *jsoncontext.Context")
	}
	res := gjson.Get(c.doc, v.Path)
	if !res.Exists() {
		return gjson.Result{}, boolerr.New(boolerr.InvalidOperation, "path %q not found in document", v.Path)
	}
	return res, nil
}

func (v *Variable) ReadAsBoolean(ctx datatype.Context) (bool, error) {
	res, err := v.lookup(ctx)
	if err != nil {
		return false, err
	}
	return res.Bool(), nil
}

func (v *Variable) ReadAsNumber(ctx datatype.Context) (float64, error) {
	res, err := v.lookup(ctx)
	if err != nil {
		return 0, err
	}
	return res.Float(), nil
}

func (v *Variable) ReadAsString(ctx datatype.Context) (string, error) {
	res, err := v.lookup(ctx)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

func (v *Variable) ReadAsSet(ctx datatype.Context) ([]datatype.Value, error) {
	res, err := v.lookup(ctx)
	if err != nil {
		return nil, err
	}
	if !res.IsArray() {
		return nil, boolerr.New(boolerr.InvalidOperation, "path %q is not a JSON array", v.Path)
	}
	var out []datatype.Value
	res.ForEach(func(_, item gjson.Result) bool {
		out = append(out, elementValue(item))
		return true
	})
	return out, nil
}

// elementValue converts one array element into the tagged Value the set
// operators compare against, inferring the tag from the JSON value's own
// type since set elements carry no separate schema.
func elementValue(item gjson.Result) datatype.Value {
	switch item.Type {
	case gjson.True, gjson.False:
		return datatype.Value{Tag: datatype.Boolean, Bool: item.Bool()}
	case gjson.Number:
		return datatype.Value{Tag: datatype.Number, Num: item.Float()}
	default:
		return datatype.Value{Tag: datatype.String, Str: item.String()}
	}
}
