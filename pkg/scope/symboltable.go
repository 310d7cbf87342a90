package scope

import (
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/ident"
)

// SymbolTable is a per-locale, read-only materialisation of a Namespace,
// used by the parser to resolve identifier tokens (spec.md §3, §4.6). It
// is derived once per locale and cached on the owning Namespace.
type SymbolTable struct {
	objects   map[string]*Binding
	subTables map[string]*SymbolTable
}

// AsSymbolTable derives (or returns the cached) per-locale view of n.
// Passing the zero Locale selects the global-name view (spec.md §4.6: "if
// locale is absent, the global-name view is used").
func (n *Namespace) AsSymbolTable(locale ident.Locale) *SymbolTable {
	key := locale.String()
	if cached, ok := n.tableCache[key]; ok {
		return cached
	}

	st := &SymbolTable{
		objects:   make(map[string]*Binding, len(n.bindingOrder)),
		subTables: make(map[string]*SymbolTable, len(n.subOrder)),
	}
	for _, bindKey := range n.bindingOrder {
		b := n.bindings[bindKey]
		st.objects[ident.Fold(b.LocalisedName(locale))] = b
	}
	for _, subKey := range n.subOrder {
		sub := n.subNamespaces[subKey]
		name := ident.Fold(sub.LocalisedName(locale))
		st.subTables[name] = sub.AsSymbolTable(locale)
	}

	n.tableCache[key] = st
	return st
}

// Resolve walks namespacePath through sub-tables in order, then looks up
// name in the final table (spec.md §4.6). Each path segment and the final
// name are case-folded before lookup, mirroring identifier normalisation.
func (st *SymbolTable) Resolve(namespacePath []string, name string) (*Binding, error) {
	cur := st
	for _, seg := range namespacePath {
		next, ok := cur.subTables[ident.Fold(seg)]
		if !ok {
			return nil, boolerr.New(boolerr.Scope, "unknown namespace segment %q", seg)
		}
		cur = next
	}
	b, ok := cur.objects[ident.Fold(name)]
	if !ok {
		return nil, boolerr.New(boolerr.Scope, "unresolved identifier %q", name)
	}
	return b, nil
}
