package semantic

import (
	"github.com/bthompson/bcc/internal/ast"
	"github.com/bthompson/bcc/internal/lexer"
)

// SymbolKind classifies what a name refers to. B has no type system, so
// this is the entire taxonomy a symbol needs.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymFunction
	SymLabel
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "variable"
	case SymFunction:
		return "function"
	case SymLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Symbol is one entry in a Scope: a name, what it names, where it was
// declared, and (for vector variables) the size expression that bounds it.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Pos        lexer.Position
	VectorSize ast.Expression // non-nil only for a declared vector
}

// Scope is one link in the lexical scope chain: the root scope holds
// every top-level name, and each function definition pushes one scope
// for its parameters (nested blocks push further child scopes).
type Scope struct {
	symbols map[string]*Symbol
	parent  *Scope
}

// NewScope creates a scope enclosed by parent (nil for the root scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{symbols: make(map[string]*Symbol), parent: parent}
}

// Define installs sym in this scope. It reports false without modifying
// the scope if the name is already declared here (not in an outer scope,
// which shadowing is allowed to hide).
func (s *Scope) Define(sym *Symbol) bool {
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// Resolve looks up name in this scope, then walks outward through parent
// scopes until it finds a match or runs out of scopes.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
