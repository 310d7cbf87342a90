package scope

import (
	"github.com/boolexpr/booleano-go/pkg/boolerr"
	"github.com/boolexpr/booleano-go/pkg/ident"
)

// Namespace is a hierarchical container of bindings and sub-namespaces
// (spec.md §3). Its parent back-reference is a plain, non-owning field —
// set only by the owning AddNamespace call, never traversed for ownership
// — the same "weak back-reference" discipline the spec's design notes ask
// for in place of a cyclic owning pointer.
type Namespace struct {
	GlobalName    string
	localised     map[string]string
	bindings      map[string]*Binding
	bindingOrder  []string
	subNamespaces map[string]*Namespace
	subOrder      []string
	parent        *Namespace

	tableCache map[string]*SymbolTable
}

// NewNamespace creates an empty, unattached namespace.
func NewNamespace(globalName string, localised map[string]string) *Namespace {
	return &Namespace{
		GlobalName:    ident.Fold(globalName),
		localised:     foldLocaleKeys(localised),
		bindings:      make(map[string]*Binding),
		subNamespaces: make(map[string]*Namespace),
		tableCache:    make(map[string]*SymbolTable),
	}
}

// LocalisedName mirrors Binding.LocalisedName for namespaces.
func (n *Namespace) LocalisedName(locale ident.Locale) string {
	if locale.IsZero() {
		return n.GlobalName
	}
	if name, ok := n.localised[locale.String()]; ok {
		return name
	}
	return n.GlobalName
}

// Parent returns the enclosing namespace, or nil at the root. It is a
// read-only, non-owning accessor.
func (n *Namespace) Parent() *Namespace { return n.parent }

// AddBinding attaches b to n, failing if b is already attached elsewhere
// or if its global name clashes with an existing binding in n (spec.md §3
// — a binding and a sub-namespace may share a name, but two bindings may
// not).
func (n *Namespace) AddBinding(b *Binding) error {
	if _, exists := n.bindings[b.GlobalName]; exists {
		return boolerr.New(boolerr.Scope, "namespace %q already has a binding named %q", n.GlobalName, b.GlobalName)
	}
	if err := b.attach(n); err != nil {
		return err
	}
	n.bindings[b.GlobalName] = b
	n.bindingOrder = append(n.bindingOrder, b.GlobalName)
	n.invalidateCache()
	return nil
}

// AddNamespace attaches sub to n as a child namespace.
func (n *Namespace) AddNamespace(sub *Namespace) error {
	if sub.parent != nil {
		return boolerr.New(boolerr.Scope, "namespace %q is already attached to a parent", sub.GlobalName)
	}
	if _, exists := n.subNamespaces[sub.GlobalName]; exists {
		return boolerr.New(boolerr.Scope, "namespace %q already has a sub-namespace named %q", n.GlobalName, sub.GlobalName)
	}
	sub.parent = n
	n.subNamespaces[sub.GlobalName] = sub
	n.subOrder = append(n.subOrder, sub.GlobalName)
	n.invalidateCache()
	return nil
}

func (n *Namespace) invalidateCache() {
	for k := range n.tableCache {
		delete(n.tableCache, k)
	}
}

// Validate walks the namespace tree verifying spec.md §4.6's invariants:
// for every locale appearing anywhere in a namespace's children, localised
// names are unique among bindings and, separately, among sub-namespaces.
// Global-name uniqueness of bindings and sub-namespaces is enforced by
// AddBinding/AddNamespace as they are called and is not re-checked here.
func (n *Namespace) Validate() error {
	if err := n.validateLocalUniqueness(); err != nil {
		return err
	}
	for _, key := range n.subOrder {
		if err := n.subNamespaces[key].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (n *Namespace) validateLocalUniqueness() error {
	locales := map[string]bool{}
	for _, key := range n.bindingOrder {
		for loc := range n.bindings[key].localised {
			locales[loc] = true
		}
	}
	for _, key := range n.subOrder {
		for loc := range n.subNamespaces[key].localised {
			locales[loc] = true
		}
	}

	for locale := range locales {
		seen := map[string]bool{}
		for _, key := range n.bindingOrder {
			name := n.bindings[key].localised[locale]
			if name == "" {
				continue
			}
			if seen[name] {
				return boolerr.New(boolerr.Scope, "namespace %q has two bindings localised to %q for locale %q", n.GlobalName, name, locale)
			}
			seen[name] = true
		}
		seen = map[string]bool{}
		for _, key := range n.subOrder {
			name := n.subNamespaces[key].localised[locale]
			if name == "" {
				continue
			}
			if seen[name] {
				return boolerr.New(boolerr.Scope, "namespace %q has two sub-namespaces localised to %q for locale %q", n.GlobalName, name, locale)
			}
			seen[name] = true
		}
	}
	return nil
}
