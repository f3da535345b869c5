package query

import (
	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/scope"
	"github.com/oxhq/hookscript/internal/typeinfer"
)

// Resolved is the output of ResolveAt.
type Resolved struct {
	Node  ast.Node
	Path  []ast.Node
	Scope *scope.Scope
	Type  *typeinfer.Type
}

// finder walks the tree collecting the root-to-leaf path of nodes whose
// range contains pos, preferring the deepest (last-visited) match.
type finder struct {
	pos  int
	path []ast.Node
}

func (f *finder) Visit(n ast.Node) ast.Visitor {
	if n == nil {
		return nil
	}
	if !n.Range().ContainsInclusive(f.pos) {
		return nil
	}
	f.path = append(f.path, n)
	return f
}

// ResolveAt returns the deepest node covering pos, the scope at pos, and
// the resolved Type for the expression at pos — or for the *property*
// name if pos lands on the right-hand identifier of a member expression
// or a table-key identifier.
func ResolveAt(a *Analysis, pos int) *Resolved {
	if a.Chunk == nil {
		return nil
	}
	f := &finder{pos: pos}
	ast.Walk(f, a.Chunk)
	if len(f.path) == 0 {
		return nil
	}
	leaf := f.path[len(f.path)-1]

	var sc *scope.Scope
	var t *typeinfer.Type
	if a.Scope != nil {
		sc = scope.FindScopeAt(a.Scope.Root, pos)
		var parent ast.Node
		if len(f.path) >= 2 {
			parent = f.path[len(f.path)-2]
		}
		t = typeForNode(a.Scope, parent, leaf)
	}

	return &Resolved{Node: leaf, Path: f.path, Scope: sc, Type: t}
}

// typeForNode resolves the Type for leaf, handling the member/table-key
// property special case: the property identifier itself was never passed
// through expr() as a standalone expression, so its type is looked up via
// the owning member/table-key node's recorded type (parent is the node one
// level above leaf in the resolved path).
func typeForNode(sres *scope.Result, parent, leaf ast.Node) *typeinfer.Type {
	switch p := parent.(type) {
	case *ast.MemberExpression:
		if p.Identifier == leaf {
			if t, ok := sres.Types[p]; ok {
				return t
			}
		}
	case *ast.TableKeyString:
		if p.Key == leaf {
			if t, ok := sres.Types[p.Value]; ok {
				return t
			}
		}
	}
	switch n := leaf.(type) {
	case ast.Expression:
		if t, ok := sres.Types[n]; ok {
			return t
		}
	}
	return typeinfer.Any
}

// VisibleSymbolsAt walks the scope chain from the innermost scope at pos
// outward, returning one Declaration per name with inner scopes shadowing
// outer ones.
func VisibleSymbolsAt(a *Analysis, pos int) map[string]*scope.Declaration {
	out := map[string]*scope.Declaration{}
	if a.Scope == nil {
		return out
	}
	sc := scope.FindScopeAt(a.Scope.Root, pos)
	for cur := sc; cur != nil; cur = cur.Parent {
		for name, decl := range cur.Variables {
			if _, taken := out[name]; !taken {
				out[name] = decl
			}
		}
	}
	return out
}

// ReferencesOf returns decl's reference sites plus its definition site.
func ReferencesOf(decl *scope.Declaration) []ast.Range {
	if decl == nil {
		return nil
	}
	out := make([]ast.Range, 0, len(decl.References)+1)
	out = append(out, decl.DefinitionNode.Range())
	for _, ref := range decl.References {
		out = append(out, ref.Range())
	}
	return out
}
