package feature

import (
	"context"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/query"
)

// GotoDefinition resolves the identifier at pos and returns its
// declaration's definition range, unless pos is already inside that range.
func GotoDefinition(cache *query.Cache, buffer string, pos int, model *hostmodel.Model, ctx Context) *ast.Range {
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
	defRange := decl.DefinitionNode.Range()
	if defRange.ContainsInclusive(pos) {
		return nil
	}
	return &defRange
}
