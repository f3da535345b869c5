package feature

import (
	"context"
	"strings"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/query"
	"github.com/oxhq/hookscript/internal/typeinfer"
)

// SignatureResult describes the active call's label and which parameter
// the cursor is currently inside.
type SignatureResult struct {
	Label       string
	Params      []string
	ActiveParam int
}

// Signature finds the enclosing call: scan backward balancing parens,
// counting top-level commas to derive the active parameter, then render
// from either the helper catalog or a locally bound function's
// declaration.
func Signature(cache *query.Cache, buffer string, pos int, model *hostmodel.Model, ctx Context) *SignatureResult {
	openParen, activeParam, ok := scanBackForCall(buffer, pos)
	if !ok {
		return nil
	}

	a := cache.Analyze(context.Background(), buffer, ctx.HookName, model)
	resolved := query.ResolveAt(a, openParen)
	if resolved == nil {
		return nil
	}

	call := findEnclosingCallee(resolved.Path, openParen)
	if call == nil {
		return nil
	}

	if member, ok := call.(*ast.MemberExpression); ok {
		if base, ok := member.Object.(*ast.Identifier); ok && base.Name == "helpers" {
			if h, ok := model.Helper(member.Identifier.Name); ok {
				return &SignatureResult{Label: h.Signature, Params: paramNames(h), ActiveParam: activeParam}
			}
		}
	}

	if ident, ok := call.(*ast.Identifier); ok {
		if decl, ok := query.VisibleSymbolsAt(a, openParen)[ident.Name]; ok {
			if decl.DeclType != nil && decl.DeclType.Kind == typeinfer.Function {
				names := paramTypeNames(decl.DeclType)
				return &SignatureResult{Label: ident.Name + "(" + strings.Join(names, ", ") + ")", Params: names, ActiveParam: activeParam}
			}
		}
	}

	return nil
}

func paramNames(h hostmodel.Helper) []string {
	out := make([]string, 0, len(h.Params))
	for _, p := range h.Params {
		out = append(out, p.Name)
	}
	return out
}

func paramTypeNames(fn *typeinfer.Type) []string {
	out := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		out[i] = p.Name
	}
	return out
}

// scanBackForCall walks backward from pos, balancing parens, to find the
// opening `(` of the call the caret is inside and the comma-derived active
// parameter index.
func scanBackForCall(buffer string, pos int) (int, int, bool) {
	depth := 0
	commas := 0
	for i := pos - 1; i >= 0; i-- {
		switch buffer[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				return i, commas, true
			}
			depth--
		case ',':
			if depth == 0 {
				commas++
			}
		}
	}
	return 0, 0, false
}

// findEnclosingCallee returns the Callee expression of the innermost
// CallExpression on the resolved path. openParen is not compared against
// the call's range.
func findEnclosingCallee(path []ast.Node, openParen int) ast.Expression {
	for i := len(path) - 1; i >= 0; i-- {
		if call, ok := path[i].(*ast.CallExpression); ok {
			return call.Callee
		}
	}
	return nil
}
