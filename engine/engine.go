// Package engine implements the Analysis API: New(options) constructs an
// Engine once from injected, immutable configuration, and every method
// thereafter is a pure function of (buffer, pos, options).
package engine

import (
	"context"
	"time"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/diagnostics"
	"github.com/oxhq/hookscript/internal/feature"
	"github.com/oxhq/hookscript/internal/format"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/parser"
	"github.com/oxhq/hookscript/internal/query"
	"github.com/oxhq/hookscript/internal/schemastore"
	"github.com/oxhq/hookscript/internal/scope"
)

// Options configures Engine construction.
type Options struct {
	HostModel   *hostmodel.Model
	SchemaStore schemastore.Store
	CacheTTL    time.Duration
}

// Engine is the single entry point for all analysis operations. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	model       *hostmodel.Model
	cache       *query.Cache
	schemaStore schemastore.Store
}

// New constructs an Engine (createEngine(hostModel)).
func New(opts Options) *Engine {
	model := opts.HostModel
	if model == nil {
		model = hostmodel.Default()
	}
	store := opts.SchemaStore
	if store == nil {
		store = schemastore.NewInMemoryStore()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Engine{model: model, cache: query.NewCache(ttl), schemaStore: store}
}

// Close releases the engine's background cache-pruning goroutine.
func (e *Engine) Close() { e.cache.Close() }

// ParseResult is engine.parse's return shape.
type ParseResult struct {
	Chunk *ast.Chunk
	Err   *parser.SyntaxError
}

// Parse tokenizes and parses buffer without building scope/type data.
func (e *Engine) Parse(buffer string) ParseResult {
	res := parser.Parse(buffer, parser.Options{Comments: true})
	return ParseResult{Chunk: res.Chunk, Err: res.Err}
}

// AnalyzeResult is engine.analyze's return shape.
type AnalyzeResult struct {
	Chunk       *ast.Chunk
	Scope       *scope.Result
	Diagnostics []diagnostics.Diagnostic
}

// Analyze runs the full pipeline for a default (no execution-mode,
// no-hook) context.
func (e *Engine) Analyze(buffer string) AnalyzeResult {
	return e.AnalyzeWithContext(buffer, feature.Context{})
}

// AnalyzeWithContext runs the full pipeline with a hook/execution-mode
// context, used by diagnostics's return-shape pass.
func (e *Engine) AnalyzeWithContext(buffer string, ctx feature.Context) AnalyzeResult {
	a := e.cache.Analyze(context.Background(), buffer, ctx.HookName, e.model)
	diags := query.DiagnosticsOf(buffer, a, e.model, diagnostics.Options{ExecutionMode: ctx.ExecutionMode})
	return AnalyzeResult{Chunk: a.Chunk, Scope: a.Scope, Diagnostics: diags}
}

// ResolveAt implements engine.resolveAt.
func (e *Engine) ResolveAt(buffer string, pos int) *query.Resolved {
	a := e.cache.Analyze(context.Background(), buffer, "", e.model)
	return query.ResolveAt(a, pos)
}

// VisibleSymbolsAt implements engine.visibleSymbolsAt.
func (e *Engine) VisibleSymbolsAt(buffer string, pos int) map[string]*scope.Declaration {
	a := e.cache.Analyze(context.Background(), buffer, "", e.model)
	return query.VisibleSymbolsAt(a, pos)
}

// ReferencesOf implements engine.referencesOf(buffer, pos).
func (e *Engine) ReferencesOf(buffer string, pos int) []ast.Range {
	a := e.cache.Analyze(context.Background(), buffer, "", e.model)
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

// ReturnSchemaOf implements engine.returnSchemaOf, consulting the schema
// store before recomputing.
func (e *Engine) ReturnSchemaOf(buffer string) *query.ReturnSchema {
	if cached, ok, err := e.schemaStore.Get(context.Background(), buffer); err == nil && ok {
		return &query.ReturnSchema{Fields: cached.Fields, DataFields: cached.DataFields}
	}
	schema := query.ReturnSchemaOf(buffer, e.model)
	if schema != nil {
		_ = e.schemaStore.Put(context.Background(), buffer, &schemastore.Schema{Fields: schema.Fields, DataFields: schema.DataFields})
	}
	return schema
}

// Complete implements engine.complete.
func (e *Engine) Complete(buffer string, pos int, ctx feature.Context) *feature.CompletionResult {
	return feature.Complete(e.cache, buffer, pos, e.model, ctx)
}

// Hover implements engine.hover.
func (e *Engine) Hover(buffer string, pos int, ctx feature.Context) *feature.HoverResult {
	return feature.Hover(e.cache, buffer, pos, e.model, ctx)
}

// Signature implements engine.signature.
func (e *Engine) Signature(buffer string, pos int, ctx feature.Context) *feature.SignatureResult {
	return feature.Signature(e.cache, buffer, pos, e.model, ctx)
}

// GotoDefinition implements the modifier-click goto-definition operation.
func (e *Engine) GotoDefinition(buffer string, pos int, ctx feature.Context) *ast.Range {
	return feature.GotoDefinition(e.cache, buffer, pos, e.model, ctx)
}

// Diagnostics implements engine.diagnostics(buffer, opts).
func (e *Engine) Diagnostics(buffer string, ctx feature.Context, opts diagnostics.Options) []diagnostics.Diagnostic {
	a := e.cache.Analyze(context.Background(), buffer, ctx.HookName, e.model)
	opts.ExecutionMode = ctx.ExecutionMode
	return query.DiagnosticsOf(buffer, a, e.model, opts)
}

// SemanticTokens implements engine.semanticTokens.
func (e *Engine) SemanticTokens(buffer string, ctx feature.Context) []feature.Token {
	return feature.SemanticTokens(e.cache, buffer, e.model, ctx)
}

// InlayHints implements engine.inlayHints.
func (e *Engine) InlayHints(buffer string, ctx feature.Context) []feature.Hint {
	return feature.InlayHints(e.cache, buffer, e.model, ctx)
}

// Format implements the formatter's regex-level normalizer.
func (e *Engine) Format(buffer string) string {
	return format.Format(buffer)
}

// HostModel exposes the engine's injected catalog (read-only use by CLI
// commands that list helpers/keywords).
func (e *Engine) HostModel() *hostmodel.Model { return e.model }
