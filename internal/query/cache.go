// Package query is the pure-function query layer every feature adapter
// consumes: ResolveAt, VisibleSymbolsAt, ReferencesOf, ReturnSchemaOf,
// DiagnosticsOf. It also owns the per-buffer analysis cache: a sync.Map
// keyed by a content hash, with an atomic hit/miss counter and TTL-based
// background pruning, caching the (ast, syntax error, scope) triple a
// single buffer+hook pair produces. Diagnostics are not cached.
package query

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/diagnostics"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/parser"
	"github.com/oxhq/hookscript/internal/scope"
)

// Analysis is the reusable output of a single analyze pass: the triple
// every query/feature operation is built from.
type Analysis struct {
	Chunk     *ast.Chunk
	SyntaxErr *parser.SyntaxError
	Scope     *scope.Result
}

type cacheEntry struct {
	analysis *Analysis
	expires  time.Time
}

// Cache memoizes Analysis by sha256(buffer, hookName) so that repeated
// queries against the same buffer within a request burst (e.g. hover
// immediately followed by semantic tokens) reuse one parse+scope pass.
type Cache struct {
	entries sync.Map // string -> cacheEntry
	ttl     time.Duration
	hits    atomic.Int64
	misses  atomic.Int64
	stopCh  chan struct{}
}

// NewCache constructs a Cache with the given entry TTL and starts its
// background pruning goroutine. Call Close to stop it.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{ttl: ttl, stopCh: make(chan struct{})}
	go c.pruneLoop()
	return c
}

func (c *Cache) pruneLoop() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.entries.Range(func(k, v any) bool {
				if entry, ok := v.(cacheEntry); ok && now.After(entry.expires) {
					c.entries.Delete(k)
				}
				return true
			})
		case <-c.stopCh:
			return
		}
	}
}

// Close stops the background pruning goroutine.
func (c *Cache) Close() { close(c.stopCh) }

// Stats reports cumulative hit/miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func key(buffer, hookName string) string {
	h := sha256.Sum256([]byte(hookName + "\x00" + buffer))
	return hex.EncodeToString(h[:])
}

// Analyze returns the cached Analysis for buffer+hookName, computing and
// storing it on a miss.
func (c *Cache) Analyze(_ context.Context, buffer, hookName string, model *hostmodel.Model) *Analysis {
	k := key(buffer, hookName)
	if v, ok := c.entries.Load(k); ok {
		if entry, ok := v.(cacheEntry); ok && time.Now().Before(entry.expires) {
			c.hits.Add(1)
			return entry.analysis
		}
	}
	c.misses.Add(1)
	a := computeAnalysis(buffer, hookName, model)
	c.entries.Store(k, cacheEntry{analysis: a, expires: time.Now().Add(c.ttl)})
	return a
}

func computeAnalysis(buffer, hookName string, model *hostmodel.Model) *Analysis {
	res := parser.Parse(buffer, parser.Options{Comments: true})
	a := &Analysis{Chunk: res.Chunk, SyntaxErr: res.Err}
	if res.Err == nil && res.Chunk != nil {
		a.Scope = scope.Build(res.Chunk, model, scope.Options{HookName: hookName})
	}
	return a
}

// DiagnosticsOf runs the diagnostics passes against a precomputed
// Analysis (diagnosticsOf).
func DiagnosticsOf(buffer string, a *Analysis, model *hostmodel.Model, opts diagnostics.Options) []diagnostics.Diagnostic {
	return diagnostics.Run(buffer, a.Chunk, a.SyntaxErr, a.Scope, model, opts)
}
