package feature

import (
	"context"
	"fmt"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/query"
	"github.com/oxhq/hookscript/internal/scope"
	"github.com/oxhq/hookscript/internal/typeinfer"
)

// HoverResult is output shape.
type HoverResult struct {
	Text string
}

// Hover checks, in priority order: disabled globals, helper members,
// builtin-library members, context fields, keywords, then bound
// declarations — returning the first match.
func Hover(cache *query.Cache, buffer string, pos int, model *hostmodel.Model, ctx Context) *HoverResult {
	a := cache.Analyze(context.Background(), buffer, ctx.HookName, model)
	resolved := query.ResolveAt(a, pos)
	if resolved == nil {
		return nil
	}

	ident, ok := resolved.Node.(*ast.Identifier)
	if !ok {
		return nil
	}

	if msg, ok := model.IsDisabled(ident.Name); ok {
		return &HoverResult{Text: msg}
	}

	if member, baseIsHelpers := memberContext(resolved.Path, ident); baseIsHelpers {
		if h, ok := model.Helper(ident.Name); ok {
			return &HoverResult{Text: formatHelper(h)}
		}
		_ = member
	}

	if lib, ok := memberLibrary(resolved.Path, ident); ok {
		if m, ok := model.FindBuiltinMember(lib, ident.Name); ok {
			return &HoverResult{Text: fmt.Sprintf("%s\n\n%s", m.Signature, m.Description)}
		}
	}

	if f, ok := model.FindContextField(ctx.HookName, ident.Name); ok && isContextProperty(resolved.Path, ident) {
		return &HoverResult{Text: fmt.Sprintf("context.%s: %s\n\n%s", ident.Name, f.Type, f.Description)}
	}

	for _, kw := range model.Keywords {
		if kw == ident.Name {
			return &HoverResult{Text: fmt.Sprintf("keyword `%s`", kw)}
		}
	}

	if a.Scope != nil {
		if sc := query.VisibleSymbolsAt(a, pos); sc != nil {
			if decl, ok := sc[ident.Name]; ok {
				return &HoverResult{Text: formatDeclaration(decl, resolved.Scope)}
			}
		}
	}

	return nil
}

func memberContext(path []ast.Node, ident *ast.Identifier) (*ast.MemberExpression, bool) {
	for _, n := range path {
		if m, ok := n.(*ast.MemberExpression); ok && m.Identifier == ident {
			if base, ok := m.Object.(*ast.Identifier); ok && base.Name == "helpers" {
				return m, true
			}
		}
	}
	return nil, false
}

func memberLibrary(path []ast.Node, ident *ast.Identifier) (string, bool) {
	for _, n := range path {
		if m, ok := n.(*ast.MemberExpression); ok && m.Identifier == ident {
			if base, ok := m.Object.(*ast.Identifier); ok {
				switch base.Name {
				case "string", "table", "math":
					return base.Name, true
				}
			}
		}
	}
	return "", false
}

func isContextProperty(path []ast.Node, ident *ast.Identifier) bool {
	for _, n := range path {
		if m, ok := n.(*ast.MemberExpression); ok && m.Identifier == ident {
			if base, ok := m.Object.(*ast.Identifier); ok && base.Name == "context" {
				return true
			}
		}
	}
	return false
}

func formatHelper(h hostmodel.Helper) string {
	return fmt.Sprintf("%s\n\n%s", h.Signature, h.Description)
}

func formatDeclaration(decl *scope.Declaration, at *scope.Scope) string {
	kind := "local"
	switch decl.DeclKind {
	case scope.KindParameter:
		kind = "parameter"
	case scope.KindFunction:
		kind = "function"
	case scope.KindGlobal:
		kind = "global"
	}
	text := fmt.Sprintf("%s %s: %s", kind, decl.Name, typeinfer.FormatType(decl.DeclType))
	if at != nil && scope.IsUpvalue(decl, at) {
		text += " (upvalue)"
	}
	if decl.Documentation != nil {
		text += "\n\n" + decl.Documentation.Text
	}
	return text
}
