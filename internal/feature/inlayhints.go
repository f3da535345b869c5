package feature

import (
	"context"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/query"
	"github.com/oxhq/hookscript/internal/scope"
	"github.com/oxhq/hookscript/internal/typeinfer"
)

// Hint is output shape: a `: Type` widget rendered right
// after a LocalStatement variable's identifier.
type Hint struct {
	Offset int
	Text   string
}

// InlayHints renders a `: Type` widget after every local variable
// declaration whose inferred type isn't Unknown.
func InlayHints(cache *query.Cache, buffer string, model *hostmodel.Model, ctx Context) []Hint {
	a := cache.Analyze(context.Background(), buffer, ctx.HookName, model)
	if a.Chunk == nil || a.Scope == nil {
		return nil
	}
	var hints []Hint
	for _, decl := range a.Scope.Declarations {
		if decl.DeclKind != scope.KindLocal {
			continue
		}
		if decl.DeclType == nil || decl.DeclType.Kind == typeinfer.Unknown {
			continue
		}
		ident, ok := decl.DefinitionNode.(*ast.Identifier)
		if !ok {
			continue
		}
		hints = append(hints, Hint{Offset: ident.Range().End, Text: ": " + typeinfer.FormatType(decl.DeclType)})
	}
	return hints
}
