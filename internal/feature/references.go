package feature

import (
	"context"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/query"
)

// FindReferences requires an Identifier with a bound declaration and
// returns the union of its definition and reference sites. No regex
// fallback; an undefined word yields zero results.
func FindReferences(cache *query.Cache, buffer string, pos int, model *hostmodel.Model, ctx Context) []ast.Range {
	a := cache.Analyze(context.Background(), buffer, ctx.HookName, model)
	resolved := query.ResolveAt(a, pos)
	if resolved == nil {
		return nil
	}
	ident, ok := resolved.Node.(*ast.Identifier)
	if !ok {
		return nil
	}
	symbols := query.VisibleSymbolsAt(a, pos)
	decl, ok := symbols[ident.Name]
	if !ok {
		return nil
	}
	return query.ReferencesOf(decl)
}
