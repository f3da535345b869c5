package scope

import (
	"strings"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/typeinfer"
)

// Result is the output of Build: the root scope plus the side tables
// every query/diagnostic pass consumes. Side data is keyed by node
// identity (the node pointer itself), never attached by mutating AST
// fields.
type Result struct {
	Root *Scope

	// Types maps every Expression node to its inferred Type.
	Types map[ast.Expression]*typeinfer.Type

	// Declarations lists every Declaration bound anywhere in the chunk,
	// in binding order.
	Declarations []*Declaration

	// MemberProperties and TableKeys record the start offsets of
	// identifiers that are member-expression properties or table-key
	// names rather than ordinary variable references, so the undefined-
	// identifier diagnostic pass can exclude them by position-set
	// lookup (rule 4).
	MemberProperties map[int]bool
	TableKeys        map[int]bool

	// Globals records every identifier resolved as a bare, unbound
	// global reference (including host-model standard globals), keyed
	// by the identifier's start offset, so hover/semantic-tokens can
	// distinguish "known global" from "undefined".
	Globals map[int]string
}

// Options parameterizes a single Build call.
type Options struct {
	HookName string
}

// Build walks chunk once, constructing the scope tree and inferring types
// in lockstep.
func Build(chunk *ast.Chunk, model *hostmodel.Model, opts Options) *Result {
	b := &builder{
		model: model,
		opts:  opts,
		res: &Result{
			Types:            map[ast.Expression]*typeinfer.Type{},
			MemberProperties: map[int]bool{},
			TableKeys:        map[int]bool{},
			Globals:          map[int]string{},
		},
		docs: indexDocComments(chunk.Comments),
	}
	root := newScope(nil, chunk.Range(), false)
	b.res.Root = root
	b.block(chunk.Body, root)
	return b.res
}

type builder struct {
	model *hostmodel.Model
	opts  Options
	res   *Result
	docs  map[int]string // statement start offset -> preceding comment text
}

func indexDocComments(comments []*ast.Comment) map[int]string {
	idx := map[int]string{}
	for _, c := range comments {
		idx[c.Range().End] = c.Text
	}
	return idx
}

func (b *builder) declare(s *Scope, name string, kind Kind, t *typeinfer.Type, def ast.Node) *Declaration {
	d := &Declaration{Name: name, DeclKind: kind, DeclType: t, DefinitionNode: def, Scope: s}
	if txt, ok := b.docs[def.Range().Start]; ok {
		d.Documentation = &DocBlock{Text: txt}
	}
	s.Variables[name] = d
	b.res.Declarations = append(b.res.Declarations, d)
	return d
}

func (b *builder) resolveIdentifier(id *ast.Identifier, s *Scope) *typeinfer.Type {
	if d, _ := s.Lookup(id.Name); d != nil {
		d.References = append(d.References, id)
		return d.DeclType
	}
	if msg, ok := b.model.IsDisabled(id.Name); ok {
		_ = msg
		b.res.Globals[id.Range().Start] = id.Name
		return typeinfer.NewGlobal(id.Name)
	}
	if b.model.IsStandardGlobal(id.Name) {
		b.res.Globals[id.Range().Start] = id.Name
		return typeinfer.NewGlobal(id.Name)
	}
	b.res.Globals[id.Range().Start] = id.Name
	return typeinfer.Any
}

func (b *builder) block(stmts []ast.Statement, s *Scope) {
	for _, stmt := range stmts {
		b.statement(stmt, s)
	}
}

func (b *builder) statement(stmt ast.Statement, s *Scope) {
	switch n := stmt.(type) {
	case *ast.LocalStatement:
		// init expressions are evaluated in the enclosing (pre-binding)
		// scope so `local x = x` resolves the outer x.
		initTypes := make([]*typeinfer.Type, len(n.Init))
		for i, e := range n.Init {
			initTypes[i] = b.expr(e, s)
		}
		for i, name := range n.Names {
			var t *typeinfer.Type = typeinfer.Any
			if i < len(initTypes) {
				t = initTypes[i]
			}
			b.declare(s, name.Name, KindLocal, t, name)
		}

	case *ast.AssignmentStatement:
		for _, e := range n.Init {
			b.expr(e, s)
		}
		for _, target := range n.Targets {
			b.assignTarget(target, s)
		}

	case *ast.CallStatement:
		b.expr(n.Call, s)

	case *ast.ReturnStatement:
		for _, a := range n.Arguments {
			b.expr(a, s)
		}

	case *ast.IfStatement:
		for _, clause := range n.Clauses {
			if clause.Condition != nil {
				b.expr(clause.Condition, s)
			}
			child := newScope(s, clause.Range(), false)
			b.block(clause.Body, child)
		}

	case *ast.WhileStatement:
		b.expr(n.Condition, s)
		child := newScope(s, n.Range(), false)
		b.block(n.Body, child)

	case *ast.RepeatStatement:
		// the until-condition's scope includes the body's locals, unlike
		// a while loop's condition, so build the child scope first and
		// evaluate the condition inside it.
		child := newScope(s, n.Range(), false)
		b.block(n.Body, child)
		b.expr(n.Condition, child)

	case *ast.DoStatement:
		child := newScope(s, n.Range(), false)
		b.block(n.Body, child)

	case *ast.FunctionDeclaration:
		fnType := &typeinfer.Type{Kind: typeinfer.Function, Params: paramTypes(n.Parameters)}
		switch ident := n.Identifier.(type) {
		case *ast.Identifier:
			// bound in the enclosing scope regardless of IsLocal; IsLocal
			// only distinguishes the declaration's visibility, not where
			// it lives.
			b.declare(s, ident.Name, KindFunction, fnType, ident)
		case *ast.MemberExpression:
			b.assignTarget(ident, s)
		}
		child := newScope(s, n.Range(), true)
		for _, p := range n.Parameters {
			b.declare(child, p.Name, KindParameter, typeinfer.Any, p)
		}
		b.block(n.Body, child)

	case *ast.ForNumericStatement:
		b.expr(n.Start, s)
		b.expr(n.Stop, s)
		if n.Step != nil {
			b.expr(n.Step, s)
		}
		child := newScope(s, n.Range(), false)
		b.declare(child, n.Variable.Name, KindLocal, typeinfer.Number, n.Variable)
		b.block(n.Body, child)

	case *ast.ForGenericStatement:
		for _, it := range n.Iterators {
			b.expr(it, s)
		}
		child := newScope(s, n.Range(), false)
		b.bindGenericForNames(n, child)
		b.block(n.Body, child)

	case *ast.BreakStatement, *ast.LabelStatement, *ast.GotoStatement:
		// nothing to bind or resolve

	default:
		// unknown statement kind: nothing to do
	}
}

// bindGenericForNames implements pairs/ipairs iterator typing:
// when the first iterator expression is a call to pairs(t) or ipairs(t)
// and t is a bound table, derive k/v from t's shape; otherwise fall back
// to Unknown.
func (b *builder) bindGenericForNames(n *ast.ForGenericStatement, child *Scope) {
	keyType, valType := typeinfer.Any, typeinfer.Any
	if len(n.Iterators) > 0 {
		if call, ok := n.Iterators[0].(*ast.CallExpression); ok {
			if callee, ok := call.Callee.(*ast.Identifier); ok && len(call.Arguments) > 0 {
				argType := b.res.Types[call.Arguments[0]]
				switch callee.Name {
				case "pairs":
					keyType = typeinfer.String
					valType = fieldUnion(argType)
				case "ipairs":
					keyType = typeinfer.Number
					valType = fieldUnion(argType)
				}
			}
		}
	}
	for i, name := range n.Names {
		t := typeinfer.Any
		switch i {
		case 0:
			t = keyType
		case 1:
			t = valType
		}
		b.declare(child, name.Name, KindLocal, t, name)
	}
}

func fieldUnion(t *typeinfer.Type) *typeinfer.Type {
	if t == nil || t.Kind != typeinfer.Table {
		return typeinfer.Any
	}
	vals := make([]*typeinfer.Type, 0, len(t.Fields))
	for _, v := range t.Fields {
		vals = append(vals, v)
	}
	return typeinfer.NewUnion(vals...)
}

// assignTarget resolves an assignment target, extending a known table
// type's field map when the target is a statically resolvable dotted path
// (AssignmentStatement rule) or recording a plain identifier as
// a reference/global.
func (b *builder) assignTarget(target ast.Expression, s *Scope) {
	switch t := target.(type) {
	case *ast.Identifier:
		if d, _ := s.Lookup(t.Name); d != nil {
			d.References = append(d.References, t)
			return
		}
		b.res.Globals[t.Range().Start] = t.Name
	case *ast.MemberExpression:
		baseType := b.expr(t.Object, s)
		b.res.MemberProperties[t.Identifier.Range().Start] = true
		if baseType != nil && baseType.Kind == typeinfer.Table {
			baseType.Fields[t.Identifier.Name] = typeinfer.Any
		}
	case *ast.IndexExpression:
		b.expr(t.Object, s)
		b.expr(t.Index, s)
	}
}

// expr infers and records the Type of e, resolving any identifiers it
// contains against s. It returns the inferred Type.
func (b *builder) expr(e ast.Expression, s *Scope) *typeinfer.Type {
	if e == nil {
		return typeinfer.Any
	}
	var t *typeinfer.Type
	switch n := e.(type) {
	case *ast.StringLiteral:
		t = typeinfer.NewLiteral(typeinfer.String, n.Value)
	case *ast.NumericLiteral:
		if n.IsInt {
			t = typeinfer.NewLiteral(typeinfer.Integer, n.IntValue)
		} else {
			t = typeinfer.NewLiteral(typeinfer.Number, n.Value)
		}
	case *ast.BooleanLiteral:
		t = typeinfer.NewLiteral(typeinfer.Boolean, n.Value)
	case *ast.NilLiteral:
		t = typeinfer.Nil
	case *ast.VarargLiteral:
		t = typeinfer.Any

	case *ast.Identifier:
		t = b.resolveIdentifier(n, s)

	case *ast.TableConstructorExpression:
		table := typeinfer.NewTable()
		for _, f := range n.Fields {
			switch field := f.(type) {
			case *ast.TableKeyString:
				b.res.TableKeys[field.Key.Range().Start] = true
				table.Fields[field.Key.Name] = b.expr(field.Value, s)
			case *ast.TableKey:
				b.expr(field.Key, s)
				b.expr(field.Value, s)
			case *ast.TableValue:
				b.expr(field.Value, s)
			}
		}
		t = table

	case *ast.MemberExpression:
		baseType := b.expr(n.Object, s)
		b.res.MemberProperties[n.Identifier.Range().Start] = true
		t = b.inferMember(baseType, n.Identifier.Name)

	case *ast.IndexExpression:
		b.expr(n.Object, s)
		b.expr(n.Index, s)
		t = typeinfer.Any

	case *ast.CallExpression:
		t = b.inferCall(n, s)

	case *ast.BinaryExpression:
		left := b.expr(n.Left, s)
		right := b.expr(n.Right, s)
		t = inferBinary(n.Operator, left, right)

	case *ast.LogicalExpression:
		left := b.expr(n.Left, s)
		right := b.expr(n.Right, s)
		switch n.Operator {
		case "or":
			if typeinfer.Widen(left).Kind == typeinfer.Primitive && typeinfer.Widen(left).Primitive == "nil" {
				t = right
			} else {
				t = typeinfer.NewUnion(left, right)
			}
		default: // "and"
			t = typeinfer.NewUnion(left, right)
		}

	case *ast.UnaryExpression:
		arg := b.expr(n.Argument, s)
		t = inferUnary(n.Operator, arg)

	case *ast.FunctionExpression:
		child := newScope(s, n.Range(), true)
		for _, p := range n.Parameters {
			b.declare(child, p.Name, KindParameter, typeinfer.Any, p)
		}
		b.block(n.Body, child)
		t = &typeinfer.Type{Kind: typeinfer.Function, Params: paramTypes(n.Parameters)}

	default:
		t = typeinfer.Any
	}
	b.res.Types[e] = t
	b.checkMetatableCall(e, s)
	return t
}

// paramTypes converts a function's parameter identifier list into the
// NamedType slice a typeinfer.Function type carries, so hover and
// signature help can render parameter names without re-walking the AST.
func paramTypes(params []*ast.Identifier) []typeinfer.NamedType {
	out := make([]typeinfer.NamedType, len(params))
	for i, p := range params {
		out[i] = typeinfer.NamedType{Name: p.Name, Type: typeinfer.Any}
	}
	return out
}

func inferBinary(op string, left, right *typeinfer.Type) *typeinfer.Type {
	switch op {
	case "..":
		return typeinfer.String
	case "+", "-", "*", "/", "//", "%", "^", "&", "|", "~", "<<", ">>":
		return typeinfer.Number
	case "==", "~=", "<", ">", "<=", ">=":
		return typeinfer.Boolean
	default:
		return typeinfer.Any
	}
}

func inferUnary(op string, arg *typeinfer.Type) *typeinfer.Type {
	switch op {
	case "not":
		return typeinfer.Boolean
	case "-":
		return typeinfer.Number
	case "#":
		return typeinfer.Number
	case "~":
		return typeinfer.Number
	default:
		return typeinfer.Any
	}
}

// inferMember implements MemberExpression dispatch table.
func (b *builder) inferMember(baseType *typeinfer.Type, key string) *typeinfer.Type {
	if baseType == nil {
		return typeinfer.Any
	}
	switch baseType.Kind {
	case typeinfer.Global:
		switch baseType.Name {
		case "context":
			switch key {
			case "user", "session", "apikey", "client", "request":
				return typeinfer.NewContext(key)
			case "prev":
				return typeinfer.NewGlobal("prev")
			case "outputs":
				return typeinfer.NewGlobal("outputs")
			default:
				if f, ok := b.model.FindContextField(b.opts.HookName, key); ok {
					return namedTypeToType(f.Type)
				}
				return typeinfer.Any
			}
		case "helpers":
			if h, ok := b.model.Helper(key); ok {
				return helperToFunctionType(h)
			}
			return typeinfer.Any
		case "string", "table", "math":
			if m, ok := b.model.FindBuiltinMember(baseType.Name, key); ok {
				return &typeinfer.Type{Kind: typeinfer.Function, Doc: m.Description}
			}
			return typeinfer.Any
		default:
			return typeinfer.Any
		}
	case typeinfer.Context:
		if f, ok := b.model.FindNestedField(contextObjectToNested(baseType.Name), key); ok {
			return namedTypeToType(f.Type)
		}
		return typeinfer.Any
	case typeinfer.Table:
		return typeinfer.FieldLookup(baseType, key)
	default:
		return typeinfer.Any
	}
}

func contextObjectToNested(o string) string {
	switch o {
	case "user":
		return "PipelineUser"
	case "session":
		return "PipelineSession"
	case "apikey":
		return "PipelineApiKey"
	case "client":
		return "OAuthClient"
	case "request":
		return "RequestInfo"
	default:
		return o
	}
}

func namedTypeToType(typeName string) *typeinfer.Type {
	switch typeName {
	case "string":
		return typeinfer.String
	case "number":
		return typeinfer.Number
	case "integer":
		return typeinfer.Integer
	case "boolean":
		return typeinfer.Boolean
	case "table":
		return typeinfer.NewTable()
	default:
		if strings.HasPrefix(typeName, "context(") {
			return typeinfer.NewContext(strings.TrimSuffix(strings.TrimPrefix(typeName, "context("), ")"))
		}
		if strings.HasPrefix(typeName, "global(") {
			return typeinfer.NewGlobal(strings.TrimSuffix(strings.TrimPrefix(typeName, "global("), ")"))
		}
		return typeinfer.Any
	}
}

func helperToFunctionType(h hostmodel.Helper) *typeinfer.Type {
	params := make([]typeinfer.NamedType, 0, len(h.Params))
	for _, p := range h.Params {
		params = append(params, typeinfer.NamedType{Name: p.Name, Type: namedTypeToType(p.Type)})
	}
	return &typeinfer.Type{Kind: typeinfer.Function, Params: params, Doc: h.Description}
}

// inferCall implements CallExpression specialization for
// known helpers.
func (b *builder) inferCall(call *ast.CallExpression, s *Scope) *typeinfer.Type {
	for _, a := range call.Arguments {
		b.expr(a, s)
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if ok {
		b.expr(member.Object, s)
		b.res.MemberProperties[member.Identifier.Range().Start] = true
	} else {
		b.expr(call.Callee, s)
	}
	if !ok {
		return typeinfer.Any
	}
	baseIdent, ok := member.Object.(*ast.Identifier)
	if !ok || baseIdent.Name != "helpers" {
		return typeinfer.Any
	}
	switch member.Identifier.Name {
	case "fetch":
		t := typeinfer.NewTable()
		t.Fields["status"] = typeinfer.Number
		t.Fields["body"] = typeinfer.String
		t.Fields["headers"] = typeinfer.NewTable()
		return t
	case "matches":
		return typeinfer.Boolean
	case "now":
		return typeinfer.Number
	case "hash":
		return typeinfer.String
	default:
		return typeinfer.Any
	}
}

// checkMetatableCall implements single-level setmetatable
// __index handling: when `setmetatable(T, { __index = M })` is observed
// and T resolves to a bound table, M's table type is appended to
// T's Bases.
func (b *builder) checkMetatableCall(e ast.Expression, s *Scope) {
	call, ok := e.(*ast.CallExpression)
	if !ok {
		return
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || callee.Name != "setmetatable" || len(call.Arguments) < 2 {
		return
	}
	targetIdent, ok := call.Arguments[0].(*ast.Identifier)
	if !ok {
		return
	}
	decl, _ := s.Lookup(targetIdent.Name)
	if decl == nil || decl.DeclType == nil || decl.DeclType.Kind != typeinfer.Table {
		return
	}
	meta, ok := call.Arguments[1].(*ast.TableConstructorExpression)
	if !ok {
		return
	}
	for _, f := range meta.Fields {
		ks, ok := f.(*ast.TableKeyString)
		if !ok || ks.Key.Name != "__index" {
			continue
		}
		indexType := b.res.Types[ks.Value]
		if indexType == nil {
			indexType = b.expr(ks.Value, s)
		}
		if indexType != nil && indexType.Kind == typeinfer.Table {
			decl.DeclType.Bases = append(decl.DeclType.Bases, indexType)
		}
	}
}
