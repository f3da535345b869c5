package feature

import (
	"context"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/query"
	"github.com/oxhq/hookscript/internal/scope"
	"github.com/oxhq/hookscript/internal/typeinfer"
)

// Role classifies a token for semantic highlighting. Roles
// are derived from scope/type, never from lexical guessing.
type Role string

const (
	RoleNamespace     Role = "namespace"
	RoleMethod        Role = "method"
	RoleProperty      Role = "property"
	RoleParameter     Role = "parameter"
	RoleUpvalue       Role = "upvalue"
	RoleLocal         Role = "local"
	RoleFunction      Role = "function"
	RoleGlobal        Role = "global"
	RoleUnknownGlobal Role = "unknownGlobal"
	RoleBoolean       Role = "boolean"
	RoleNil           Role = "nil"
	RoleTableKey      Role = "tableKey"
	RoleLabel         Role = "label"
)

// Token is one semantic-highlighting decoration.
type Token struct {
	Range ast.Range
	Role  Role
}

// SemanticTokens classifies every identifier, boolean/nil literal, and label in a
// single ast.Walk pass, deriving each token's Role from scope/type
// information rather than lexical guessing.
func SemanticTokens(cache *query.Cache, buffer string, model *hostmodel.Model, ctx Context) []Token {
	a := cache.Analyze(context.Background(), buffer, ctx.HookName, model)
	if a.Chunk == nil {
		return nil
	}
	v := &semanticVisitor{sres: a.Scope, model: model, hookName: ctx.HookName, handled: map[int]bool{}}
	ast.Walk(v, a.Chunk)
	return v.tokens
}

type semanticVisitor struct {
	sres     *scope.Result
	model    *hostmodel.Model
	hookName string
	tokens   []Token
	handled  map[int]bool
}

func (v *semanticVisitor) Visit(n ast.Node) ast.Visitor {
	switch node := n.(type) {
	case *ast.BooleanLiteral:
		v.emit(node.Range(), RoleBoolean)
	case *ast.NilLiteral:
		v.emit(node.Range(), RoleNil)
	case *ast.LabelStatement:
		v.emit(node.Range(), RoleLabel)
	case *ast.MemberExpression:
		v.visitMember(node)
	case *ast.TableKeyString:
		v.emit(node.Key.Range(), RoleTableKey)
	case *ast.Identifier:
		v.visitIdentifier(node)
	}
	return v
}

func (v *semanticVisitor) visitMember(m *ast.MemberExpression) {
	if base, ok := m.Object.(*ast.Identifier); ok {
		switch base.Name {
		case "helpers":
			v.emit(base.Range(), RoleNamespace)
			v.handled[base.Range().Start] = true
			v.emit(m.Identifier.Range(), RoleMethod)
			return
		case "context", "string", "table", "math":
			v.emit(base.Range(), RoleNamespace)
			v.handled[base.Range().Start] = true
			v.emit(m.Identifier.Range(), RoleProperty)
			return
		}
	}
	v.emit(m.Identifier.Range(), RoleProperty)
}

func (v *semanticVisitor) visitIdentifier(id *ast.Identifier) {
	if v.sres == nil {
		return
	}
	if v.handled[id.Range().Start] {
		return
	}
	if v.sres.MemberProperties[id.Range().Start] || v.sres.TableKeys[id.Range().Start] {
		return
	}
	sc := scope.FindScopeAt(v.sres.Root, id.Range().Start)
	decl, _ := sc.Lookup(id.Name)
	if decl == nil {
		if v.model.IsStandardGlobal(id.Name) {
			v.emit(id.Range(), RoleGlobal)
		} else if _, disabled := v.model.IsDisabled(id.Name); disabled {
			v.emit(id.Range(), RoleGlobal)
		} else {
			v.emit(id.Range(), RoleUnknownGlobal)
		}
		return
	}
	switch {
	case decl.DeclKind == scope.KindParameter:
		v.emit(id.Range(), RoleParameter)
	case decl.DeclKind == scope.KindFunction:
		v.emit(id.Range(), RoleFunction)
	case decl.DeclType != nil && decl.DeclType.Kind == typeinfer.Function:
		v.emit(id.Range(), RoleFunction)
	case scope.IsUpvalue(decl, sc):
		v.emit(id.Range(), RoleUpvalue)
	default:
		v.emit(id.Range(), RoleLocal)
	}
}

func (v *semanticVisitor) emit(r ast.Range, role Role) {
	v.tokens = append(v.tokens, Token{Range: r, Role: role})
}
