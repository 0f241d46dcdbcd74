// Package symbols holds the scope arena and the symbol variants names are
// bound to.
package symbols

import (
	"strings"

	"github.com/funvibe/finlang/internal/diagnostics"
	"github.com/funvibe/finlang/internal/token"
)

// ScopeID is a handle into a Table.
type ScopeID int32

// NoScope is the parent of the outermost scope.
const NoScope ScopeID = -1

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopePrelude   ScopeKind = iota // Built-in symbols
	ScopeGlobal                     // Running root shared by all units
	ScopeRoot                       // Per-unit user root
	ScopeNamespace                  // One namespace segment
	ScopeFunction                   // Function or lambda parameters
	ScopeBlock                      // Block, branch or loop body
	ScopeRecord                     // Record type parameters and fields
)

func (k ScopeKind) String() string {
	switch k {
	case ScopePrelude:
		return "prelude"
	case ScopeGlobal:
		return "global"
	case ScopeRoot:
		return "root"
	case ScopeNamespace:
		return "namespace"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeRecord:
		return "record"
	default:
		return "invalid"
	}
}

type scope struct {
	kind   ScopeKind
	parent ScopeID
	path   string
	names  map[string]Symbol
	order  []string
	// Same-path namespace scopes that earlier units merged into the global
	// root. Lookups and duplicate checks see their members too.
	links []ScopeID
}

// Table is the arena of every scope of a program. It is not safe for
// concurrent use.
type Table struct {
	scopes []*scope
}

func NewTable() *Table {
	return &Table{}
}

// NewScope creates an empty scope under parent.
func (t *Table) NewScope(kind ScopeKind, parent ScopeID) ScopeID {
	id := ScopeID(len(t.scopes))
	path := ""
	if parent != NoScope {
		path = t.scopes[parent].path
	}
	t.scopes = append(t.scopes, &scope{
		kind:   kind,
		parent: parent,
		path:   path,
		names:  make(map[string]Symbol),
	})
	return id
}

func (t *Table) Parent(id ScopeID) ScopeID { return t.scopes[id].parent }
func (t *Table) Kind(id ScopeID) ScopeKind { return t.scopes[id].kind }

// Path is the dotted namespace path enclosing id.
func (t *Table) Path(id ScopeID) string { return t.scopes[id].path }

// Len is the number of scopes in the arena.
func (t *Table) Len() int { return len(t.scopes) }

// Symbols lists the symbols defined directly in id, in definition order.
func (t *Table) Symbols(id ScopeID) []Symbol {
	s := t.scopes[id]
	out := make([]Symbol, len(s.order))
	for i, name := range s.order {
		out[i] = s.names[name]
	}
	return out
}

// Define binds sym in id. If the name is already bound in that exact scope,
// or for a namespace scope in the same namespace opened by an earlier unit,
// the prior binding is kept and IdentifierAlreadyExists is returned.
func (t *Table) Define(id ScopeID, sym Symbol) *diagnostics.DiagnosticError {
	name := sym.SymbolName()
	if _, ok := t.Lookup(id, name); ok {
		return diagnostics.NewError(diagnostics.ErrIdentifierAlreadyExists, sym.SymbolToken(), name)
	}
	t.bind(id, name, sym)
	return nil
}

func (t *Table) bind(id ScopeID, name string, sym Symbol) {
	s := t.scopes[id]
	s.names[name] = sym
	s.order = append(s.order, name)
}

// Lookup finds name in id itself (and its linked namespaces) without
// walking outward.
func (t *Table) Lookup(id ScopeID, name string) (Symbol, bool) {
	s := t.scopes[id]
	if sym, ok := s.names[name]; ok {
		return sym, true
	}
	for _, l := range s.links {
		if sym, ok := t.Lookup(l, name); ok {
			return sym, true
		}
	}
	return nil, false
}

// Fetch walks outward from id and returns the nearest binding of name
// together with the scope that holds it.
func (t *Table) Fetch(id ScopeID, name string) (Symbol, ScopeID, bool) {
	for cur := id; cur != NoScope; cur = t.scopes[cur].parent {
		if sym, ok := t.Lookup(cur, name); ok {
			return sym, cur, true
		}
	}
	return nil, NoScope, false
}

// Resolve is Fetch for analysis passes: a missing name is recorded as
// IdentifierNotFound and yields the error sentinel.
func (t *Table) Resolve(id ScopeID, name string, tok token.Token, errs *diagnostics.Errors) Symbol {
	if sym, _, ok := t.Fetch(id, name); ok {
		return sym
	}
	errs.Add(diagnostics.NewError(diagnostics.ErrIdentifierNotFound, tok, name))
	return &ErrorSymbol{Name: name}
}

// FetchQualified resolves a dotted path: the first segment walks outward
// from id, every later segment is looked up inside the namespace found so
// far.
func (t *Table) FetchQualified(id ScopeID, path []string) (Symbol, bool) {
	if len(path) == 0 {
		return nil, false
	}
	sym, _, ok := t.Fetch(id, path[0])
	for _, seg := range path[1:] {
		if !ok {
			return nil, false
		}
		ns, isNS := sym.(*Namespace)
		if !isNS {
			return nil, false
		}
		sym, ok = t.Lookup(ns.Scope, seg)
	}
	return sym, ok
}

// DefineNamespace opens the dotted path under id, creating each segment on
// first use, and returns the innermost namespace scope. A segment already
// bound to something other than a namespace cannot be opened.
func (t *Table) DefineNamespace(id ScopeID, path []string, tok token.Token) (ScopeID, *diagnostics.DiagnosticError) {
	cur := id
	for _, seg := range path {
		if existing, ok := t.scopes[cur].names[seg]; ok {
			ns, isNS := existing.(*Namespace)
			if !isNS {
				return cur, diagnostics.NewError(diagnostics.ErrIdentifierCouldNotBeDefined, tok, seg)
			}
			cur = ns.Scope
			continue
		}

		var links []ScopeID
		for _, peer := range t.peers(cur) {
			sym, ok := t.Lookup(peer, seg)
			if !ok {
				continue
			}
			ns, isNS := sym.(*Namespace)
			if !isNS {
				return cur, diagnostics.NewError(diagnostics.ErrIdentifierCouldNotBeDefined, tok, seg)
			}
			links = append(links, ns.Scope)
		}

		child := t.NewScope(ScopeNamespace, cur)
		s := t.scopes[child]
		s.path = joinPath(t.scopes[cur].path, seg)
		s.links = links
		t.bind(cur, seg, &Namespace{Name: seg, Path: s.path, Token: tok, Scope: child})
		cur = child
	}
	return cur, nil
}

// peers are the scopes whose namespaces a new namespace under id must link
// to: the global root for a unit root, the linked scopes otherwise.
func (t *Table) peers(id ScopeID) []ScopeID {
	s := t.scopes[id]
	if s.kind == ScopeRoot && s.parent != NoScope && t.scopes[s.parent].kind == ScopeGlobal {
		return []ScopeID{s.parent}
	}
	return s.links
}

func joinPath(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "." + seg
}

// SplitPath splits a dotted name.
func SplitPath(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}
