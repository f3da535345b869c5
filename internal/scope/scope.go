// Package scope builds the lexical scope tree and, in the same walk,
// performs flow-sensitive type inference — the two passes are interleaved
// by design: a declaration's Type must exist before a later reference to
// it can be inferred. Grounded structurally on
// Anaminus-luasyntax's scope-extension walker: a single recursive descent
// that opens a child scope at each construct the language makes one for,
// closes it on the way back out, and threads identifier resolution
// through the scope chain as it goes.
package scope

import (
	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/typeinfer"
)

// Kind classifies how a name was bound.
type Kind int

const (
	KindLocal Kind = iota
	KindParameter
	KindFunction
	KindGlobal
)

// DocBlock is the text of a comment immediately preceding a declaration.
type DocBlock struct {
	Text string
}

// Declaration is one bound name. Upvalue-ness is never stored
// here; see IsUpvalue.
type Declaration struct {
	Name           string
	DeclKind       Kind
	DeclType       *typeinfer.Type
	DefinitionNode ast.Node
	Scope          *Scope
	Documentation  *DocBlock
	References     []*ast.Identifier
}

// Scope is one lexical scope. Only a parent link is kept; child lookups
// never need to walk down, so there is no reason to pay for a richer graph.
type Scope struct {
	Parent    *Scope
	Children  []*Scope
	Range     ast.Range
	Variables map[string]*Declaration

	isFunctionScope bool
}

func newScope(parent *Scope, rng ast.Range, isFunction bool) *Scope {
	s := &Scope{Parent: parent, Range: rng, Variables: map[string]*Declaration{}, isFunctionScope: isFunction}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Lookup searches s and its ancestors for name, innermost first.
func (s *Scope) Lookup(name string) (*Declaration, *Scope) {
	for cur := s; cur != nil; cur = cur.Parent {
		if d, ok := cur.Variables[name]; ok {
			return d, cur
		}
	}
	return nil, nil
}

// FindScopeAt returns the innermost scope whose range contains offset.
func FindScopeAt(root *Scope, offset int) *Scope {
	best := root
	var walk func(s *Scope)
	walk = func(s *Scope) {
		for _, c := range s.Children {
			if c.Range.ContainsInclusive(offset) {
				best = c
				walk(c)
			}
		}
	}
	walk(root)
	return best
}

// IsUpvalue reports whether decl, observed from scope from, crosses at
// least one function boundary between from and decl's owning scope.
func IsUpvalue(decl *Declaration, from *Scope) bool {
	if decl == nil || decl.Scope == nil {
		return false
	}
	crossedFunction := false
	for cur := from; cur != nil; cur = cur.Parent {
		if cur == decl.Scope {
			return crossedFunction
		}
		if cur.isFunctionScope {
			crossedFunction = true
		}
	}
	return false
}
