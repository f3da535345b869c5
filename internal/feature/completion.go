// Package feature holds the editor-feature adapters, one file per IDE
// feature, each a thin, pure consumer of internal/query plus
// internal/hostmodel.
package feature

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/query"
	"github.com/oxhq/hookscript/internal/repair"
	"github.com/oxhq/hookscript/internal/typeinfer"
)

// Context carries the request-scoped information every feature adapter
// may need beyond buffer+pos (ctx parameter).
type Context struct {
	HookName            string
	ExecutionMode       string
	PreviousScriptSource string
	ScriptOutputs       map[string]*query.ReturnSchema
}

var validForWord = regexp.MustCompile(`^\w*$`)

// CompletionOption is one suggestion.
type CompletionOption struct {
	Label string
	Boost int
	Detail string
}

// CompletionResult is output shape.
type CompletionResult struct {
	From     int
	Options  []CompletionOption
	ValidFor string
}

// Complete resolves the node at pos (repairing the buffer first if the
// caret sits inside a dangling `.`/`:` partial expression) and returns
// ranked suggestions: member/context/outputs completions when the caret is
// on a known chain, visible locals and globals otherwise.
func Complete(cache *query.Cache, buffer string, pos int, model *hostmodel.Model, ctx Context) *CompletionResult {
	rep := repair.Apply(buffer, pos)
	a := cache.Analyze(context.Background(), rep.Buffer, ctx.HookName, model)
	resolved := query.ResolveAt(a, rep.ResolveAt)

	from, currentWord := currentWordBounds(buffer, pos)

	var options []CompletionOption
	if resolved == nil {
		options = globalOptions(a, pos, model)
	} else if ref := outputsChainLookup(resolved); ref != nil {
		options = outputsChainOptions(ref, ctx)
	} else if baseType := memberBaseType(a, resolved); isPrevGlobal(baseType) {
		options = prevScriptOptions(ctx, model)
	} else if baseType != nil {
		options = memberOptions(baseType, model, ctx)
	} else {
		options = globalOptions(a, pos, model)
	}

	options = filterByPrefix(options, currentWord)
	if len(options) == 0 {
		return nil
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Boost > options[j].Boost })
	return &CompletionResult{From: from, Options: options, ValidFor: `^\w*$`}
}

func currentWordBounds(buffer string, pos int) (int, string) {
	start := pos
	for start > 0 && isWordByte(buffer[start-1]) {
		start--
	}
	return start, buffer[start:pos]
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func filterByPrefix(options []CompletionOption, prefix string) []CompletionOption {
	if prefix == "" {
		return options
	}
	lower := strings.ToLower(prefix)
	out := options[:0]
	for _, o := range options {
		if strings.HasPrefix(strings.ToLower(o.Label), lower) {
			out = append(out, o)
		}
	}
	return out
}

// memberBaseType reports the Type of the object a MemberExpression chain
// terminates on, when pos resolves inside one, so completion can enumerate
// its properties. The property identifier itself never carries its own
// Types entry (see query.ResolveAt), so this looks up the enclosing
// MemberExpression's Object directly rather than trusting Resolved.Type.
func memberBaseType(a *query.Analysis, r *query.Resolved) *typeinfer.Type {
	if a.Scope == nil {
		return nil
	}
	obj := enclosingMemberObject(r)
	if obj == nil {
		return nil
	}
	if t, ok := a.Scope.Types[obj]; ok {
		return t
	}
	return typeinfer.Any
}

// outputsRef names which pipeline output id (and whether the .data
// sub-object) a completion position resolves against.
type outputsRef struct {
	id       string
	wantData bool
}

// outputsChainLookup detects a cursor resolving inside
// context.outputs["id"]. or context.outputs["id"].data. . A suffix
// chain's inner nodes keep their own (smaller) Range even once wrapped by
// an outer MemberExpression, so the enclosing IndexExpression never
// survives into Resolved.Path once the cursor sits past it — this walks
// the Object pointers directly off the innermost enclosing
// MemberExpression instead of scanning Path for the IndexExpression.
func outputsChainLookup(r *query.Resolved) *outputsRef {
	obj := enclosingMemberObject(r)
	if obj == nil {
		return nil
	}
	wantData := false
	if m, ok := obj.(*ast.MemberExpression); ok && m.Identifier.Name == "data" {
		wantData = true
		obj = m.Object
	}
	idx, ok := obj.(*ast.IndexExpression)
	if !ok {
		return nil
	}
	member, ok := idx.Object.(*ast.MemberExpression)
	if !ok {
		return nil
	}
	base, ok := member.Object.(*ast.Identifier)
	if !ok || base.Name != "context" || member.Identifier.Name != "outputs" {
		return nil
	}
	lit, ok := idx.Index.(*ast.StringLiteral)
	if !ok {
		return nil
	}
	return &outputsRef{id: lit.Value, wantData: wantData}
}

// enclosingMemberObject returns the Object of the innermost MemberExpression
// in r.Path, i.e. what the caret's dot/property hangs off of.
func enclosingMemberObject(r *query.Resolved) ast.Expression {
	for i := len(r.Path) - 1; i >= 0; i-- {
		if m, ok := r.Path[i].(*ast.MemberExpression); ok {
			return m.Object
		}
	}
	return nil
}

// outputsChainOptions completes context.outputs["id"]. / .data. against
// the caller-supplied per-script return schema, falling back to the
// generic blocking-contract shape when no schema was recorded for id yet.
func outputsChainOptions(ref *outputsRef, ctx Context) []CompletionOption {
	schema := ctx.ScriptOutputs[ref.id]
	if schema == nil {
		return []CompletionOption{
			{Label: "allowed", Boost: 7}, {Label: "data", Boost: 7}, {Label: "error", Boost: 7},
		}
	}
	fields := schema.Fields
	if ref.wantData {
		fields = schema.DataFields
	}
	out := make([]CompletionOption, 0, len(fields))
	for _, f := range fields {
		out = append(out, CompletionOption{Label: f, Boost: 7})
	}
	return out
}

// isPrevGlobal reports whether baseType is the bare context.prev global,
// which completes against the previous script's inferred return schema
// rather than the host model's static context-field catalog.
func isPrevGlobal(baseType *typeinfer.Type) bool {
	return baseType != nil && baseType.Kind == typeinfer.Global && baseType.Name == "prev"
}

// prevScriptOptions completes context.prev. against the return schema
// inferred from ctx.PreviousScriptSource. It returns no options when no
// previous script was supplied, and falls back to the generic
// blocking-contract shape when that script returns no recognizable
// fields. model is the same injected host model
// every other completion branch uses, so a caller supplying an alternate
// model gets consistent results regardless of which chain it completes.
func prevScriptOptions(ctx Context, model *hostmodel.Model) []CompletionOption {
	if ctx.PreviousScriptSource == "" {
		return nil
	}
	schema := query.ReturnSchemaOf(ctx.PreviousScriptSource, model)
	if schema == nil || len(schema.Fields) == 0 {
		return []CompletionOption{
			{Label: "allowed", Boost: 7}, {Label: "data", Boost: 7}, {Label: "error", Boost: 7},
		}
	}
	out := make([]CompletionOption, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		out = append(out, CompletionOption{Label: f, Boost: 7})
	}
	return out
}

func memberOptions(baseType *typeinfer.Type, model *hostmodel.Model, ctx Context) []CompletionOption {
	var out []CompletionOption
	if baseType == nil {
		return out
	}
	switch baseType.Kind {
	case typeinfer.Global:
		switch baseType.Name {
		case "context":
			for _, f := range model.ContextFieldsFor(ctx.HookName) {
				out = append(out, CompletionOption{Label: f.Name, Boost: 9, Detail: f.Description})
			}
			for _, f := range model.UniversalFields {
				out = append(out, CompletionOption{Label: f.Name, Boost: 8, Detail: f.Description})
			}
		case "helpers":
			for _, h := range model.Helpers {
				out = append(out, CompletionOption{Label: h.Name, Boost: 5, Detail: h.Description})
			}
		case "string", "table", "math":
			for _, m := range model.Builtins[baseType.Name] {
				out = append(out, CompletionOption{Label: m.Name, Boost: 5, Detail: m.Description})
			}
		}
	case typeinfer.Table:
		for name := range baseType.Fields {
			out = append(out, CompletionOption{Label: name, Boost: 7})
		}
	}
	return out
}

func globalOptions(a *query.Analysis, pos int, model *hostmodel.Model) []CompletionOption {
	var out []CompletionOption
	if a.Scope != nil {
		for name := range query.VisibleSymbolsAt(a, pos) {
			out = append(out, CompletionOption{Label: name, Boost: 15})
		}
	}
	out = append(out, CompletionOption{Label: "helpers", Boost: 10})
	out = append(out, CompletionOption{Label: "context", Boost: 10})
	for _, kw := range model.Keywords {
		out = append(out, CompletionOption{Label: kw, Boost: -1})
	}
	for _, g := range model.StandardGlobals {
		out = append(out, CompletionOption{Label: g, Boost: 0})
	}
	for name := range model.Snippets {
		out = append(out, CompletionOption{Label: name, Boost: -2})
	}
	return out
}
