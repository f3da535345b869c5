package query

import (
	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/parser"
	"github.com/oxhq/hookscript/internal/scope"
	"github.com/oxhq/hookscript/internal/typeinfer"
)

// ReturnSchema is returnSchemaOf result shape.
type ReturnSchema struct {
	Fields     []string
	DataFields []string
}

// ReturnSchemaOf unions, across every return statement reachable in
// source, the top-level keys of returned tables; the "data" key's own
// table keys (if any) populate DataFields. An identifier return value is
// transitively resolved through its initializer with a visited-set to
// guard cycles.
func ReturnSchemaOf(source string, model *hostmodel.Model) *ReturnSchema {
	res := parser.Parse(source, parser.Options{})
	if res.Err != nil || res.Chunk == nil {
		return nil
	}
	sres := scope.Build(res.Chunk, model, scope.Options{})

	fieldSet := map[string]bool{}
	dataFieldSet := map[string]bool{}

	var walkBody func(body []ast.Statement)
	walkBody = func(body []ast.Statement) {
		for _, stmt := range body {
			switch n := stmt.(type) {
			case *ast.ReturnStatement:
				if len(n.Arguments) == 0 {
					continue
				}
				collectFromExpr(n.Arguments[0], sres, fieldSet, dataFieldSet, map[ast.Expression]bool{})
			case *ast.IfStatement:
				for _, cl := range n.Clauses {
					walkBody(cl.Body)
				}
			case *ast.WhileStatement:
				walkBody(n.Body)
			case *ast.RepeatStatement:
				walkBody(n.Body)
			case *ast.DoStatement:
				walkBody(n.Body)
			case *ast.ForNumericStatement:
				walkBody(n.Body)
			case *ast.ForGenericStatement:
				walkBody(n.Body)
			}
		}
	}
	walkBody(res.Chunk.Body)

	if len(fieldSet) == 0 {
		return &ReturnSchema{}
	}
	out := &ReturnSchema{}
	for f := range fieldSet {
		out.Fields = append(out.Fields, f)
	}
	for f := range dataFieldSet {
		out.DataFields = append(out.DataFields, f)
	}
	return out
}

func collectFromExpr(e ast.Expression, sres *scope.Result, fields, dataFields map[string]bool, visited map[ast.Expression]bool) {
	if e == nil || visited[e] {
		return
	}
	visited[e] = true

	switch n := e.(type) {
	case *ast.TableConstructorExpression:
		for _, f := range n.Fields {
			ks, ok := f.(*ast.TableKeyString)
			if !ok {
				continue
			}
			fields[ks.Key.Name] = true
			if ks.Key.Name == "data" {
				if inner, ok := ks.Value.(*ast.TableConstructorExpression); ok {
					for _, df := range inner.Fields {
						if dks, ok := df.(*ast.TableKeyString); ok {
							dataFields[dks.Key.Name] = true
						}
					}
				}
			}
		}
	case *ast.Identifier:
		enclosing := scope.FindScopeAt(sres.Root, n.Range().Start)
		decl, _ := enclosing.Lookup(n.Name)
		if decl == nil || decl.DeclType == nil || decl.DeclType.Kind != typeinfer.Table {
			return
		}
		collectFromTableType(decl.DeclType, fields, dataFields)
	}
}

// collectFromTableType mirrors collectFromExpr's field collection but
// reads from an already-inferred Table Type rather than re-walking the
// AST — used when a return statement returns an identifier bound to a
// table-shaped local ("transitively resolved through its
// initializer").
func collectFromTableType(t *typeinfer.Type, fields, dataFields map[string]bool) {
	for name, ft := range t.Fields {
		fields[name] = true
		if name == "data" && ft != nil && ft.Kind == typeinfer.Table {
			for dn := range ft.Fields {
				dataFields[dn] = true
			}
		}
	}
}
