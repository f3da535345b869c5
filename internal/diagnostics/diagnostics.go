// Package diagnostics runs the syntax, disabled-global, return-shape, and
// undefined-identifier checks, plus the code-to-severity/tag mapping table
// that is part of the stable API.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/hostmodel"
	"github.com/oxhq/hookscript/internal/parser"
	"github.com/oxhq/hookscript/internal/scope"
)

// Code is a diagnostic code, grouped by decade (1xxx syntax, 2xxx name,
// 4xxx sandbox, 5xxx quality, 6xxx pipeline).
type Code int

const (
	CodeSyntaxError         Code = 1001
	CodeUndefinedIdentifier Code = 2001
	CodeDisabledGlobal      Code = 4001
	CodeMissingReturnFields Code = 5001
	CodeScriptTooLarge      Code = 6001
)

// Severity mirrors the editor-protocol severities.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

// Diagnostic is one reported issue, in editor-protocol shape.
type Diagnostic struct {
	Range    ast.Range
	Severity Severity
	Code     Code
	Message  string
	Source   string
	Tags     []string
}

// severityFor is the single authoritative code-to-severity mapping; it
// must not change without versioning.
func severityFor(code Code) Severity {
	switch {
	case code >= 1000 && code < 2000:
		return SeverityError
	case code >= 2000 && code < 3000:
		return SeverityWarning
	case code >= 4000 && code < 5000:
		return SeverityError
	case code >= 5000 && code < 6000:
		return SeverityWarning
	case code >= 6000 && code < 7000:
		return SeverityWarning
	default:
		return SeverityWarning
	}
}

const source = "hookscript"

// MaxScriptBytes is the upstream sandbox size cap. Scripts are expected to
// stay in the few-KB range; anything past this is flagged rather than
// walked, since the engine's O(|source|) passes assume a small buffer.
const MaxScriptBytes = 64 * 1024

// Options controls which passes run.
type Options struct {
	ExecutionMode string // "blocking" | "async" | "enrichment"
	Suppress      map[Code]bool
	Cap           map[Code]int
}

// Collector accumulates diagnostics honoring suppression and per-code caps
// before returning the final, sorted list.
type Collector struct {
	opts    Options
	items   []Diagnostic
	counts  map[Code]int
}

func newCollector(opts Options) *Collector {
	return &Collector{opts: opts, counts: map[Code]int{}}
}

func (c *Collector) add(d Diagnostic) {
	if c.opts.Suppress[d.Code] {
		return
	}
	if cap, ok := c.opts.Cap[d.Code]; ok {
		if c.counts[d.Code] >= cap {
			return
		}
	}
	c.counts[d.Code]++
	c.items = append(c.items, d)
}

func (c *Collector) result() []Diagnostic {
	sort.SliceStable(c.items, func(i, j int) bool {
		li, lj := c.items[i].Range.Start, c.items[j].Range.Start
		return li < lj
	})
	return c.items
}

// Run executes every diagnostic pass in order. chunk/syntaxErr/sres are
// the outputs of a prior parse+scope.Build call (the query layer owns that
// sequencing; this package is a pure function of their results).
func Run(buffer string, chunk *ast.Chunk, syntaxErr *parser.SyntaxError, sres *scope.Result, model *hostmodel.Model, opts Options) []Diagnostic {
	c := newCollector(opts)

	if len(buffer) > MaxScriptBytes {
		c.add(Diagnostic{
			Range:    ast.Range{Start: 0, End: 1},
			Severity: severityFor(CodeScriptTooLarge),
			Code:     CodeScriptTooLarge,
			Message:  fmt.Sprintf("script is %d bytes, exceeding the %d byte sandbox limit", len(buffer), MaxScriptBytes),
			Source:   source,
		})
		return c.result()
	}

	if syntaxErr != nil {
		c.add(Diagnostic{
			Range:    ast.Range{Start: syntaxErr.Offset, End: syntaxErr.Offset + 1},
			Severity: severityFor(CodeSyntaxError),
			Code:     CodeSyntaxError,
			Message:  syntaxErr.Message,
			Source:   source,
		})
		return c.result()
	}

	if chunk == nil || sres == nil {
		return c.result()
	}

	disabledGlobalPass(c, sres, model)
	returnShapePass(c, chunk, opts.ExecutionMode, model, buffer)
	undefinedIdentifierPass(c, sres, model)

	return c.result()
}

func disabledGlobalPass(c *Collector, sres *scope.Result, model *hostmodel.Model) {
	for offset, name := range sres.Globals {
		if msg, ok := model.IsDisabled(name); ok {
			c.add(Diagnostic{
				Range:    ast.Range{Start: offset, End: offset + len(name)},
				Severity: severityFor(CodeDisabledGlobal),
				Code:     CodeDisabledGlobal,
				Message:  msg,
				Source:   source,
				Tags:     []string{"sandbox"},
			})
		}
	}
}

func returnShapePass(c *Collector, chunk *ast.Chunk, mode string, model *hostmodel.Model, buffer string) {
	if mode == "" || mode == "async" {
		return
	}
	contract, ok := model.ReturnContractFor(mode)
	if !ok || len(contract.RequiredFields) == 0 {
		return
	}

	var returns []*ast.ReturnStatement
	var collect func(body []ast.Statement)
	collect = func(body []ast.Statement) {
		for _, stmt := range body {
			switch n := stmt.(type) {
			case *ast.ReturnStatement:
				returns = append(returns, n)
			case *ast.IfStatement:
				for _, cl := range n.Clauses {
					collect(cl.Body)
				}
			case *ast.WhileStatement:
				collect(n.Body)
			case *ast.RepeatStatement:
				collect(n.Body)
			case *ast.DoStatement:
				collect(n.Body)
			case *ast.ForNumericStatement:
				collect(n.Body)
			case *ast.ForGenericStatement:
				collect(n.Body)
			}
		}
	}
	collect(chunk.Body)

	if len(returns) == 0 {
		end := 10
		if end > len(buffer) {
			end = len(buffer)
		}
		c.add(Diagnostic{
			Range:    ast.Range{Start: 0, End: end},
			Severity: severityFor(CodeMissingReturnFields),
			Code:     CodeMissingReturnFields,
			Message:  fmt.Sprintf("script has no return statement; %s mode requires %v", mode, contract.RequiredFields),
			Source:   source,
		})
		return
	}

	for _, ret := range returns {
		if len(ret.Arguments) == 0 {
			continue
		}
		tbl, ok := ret.Arguments[0].(*ast.TableConstructorExpression)
		if !ok {
			continue
		}
		present := map[string]bool{}
		for _, f := range tbl.Fields {
			if ks, ok := f.(*ast.TableKeyString); ok {
				present[ks.Key.Name] = true
			}
		}
		var missing []string
		for _, req := range contract.RequiredFields {
			if !present[req] {
				missing = append(missing, req)
			}
		}
		if len(missing) > 0 {
			c.add(Diagnostic{
				Range:    tbl.Range(),
				Severity: severityFor(CodeMissingReturnFields),
				Code:     CodeMissingReturnFields,
				Message:  fmt.Sprintf("return is missing required field(s): %v", missing),
				Source:   source,
			})
		}
	}
}

func undefinedIdentifierPass(c *Collector, sres *scope.Result, model *hostmodel.Model) {
	for offset, name := range sres.Globals {
		if sres.MemberProperties[offset] || sres.TableKeys[offset] {
			continue
		}
		if model.IsStandardGlobal(name) {
			continue
		}
		if _, disabled := model.IsDisabled(name); disabled {
			continue
		}
		if len(name) < 2 {
			continue
		}
		c.add(Diagnostic{
			Range:    ast.Range{Start: offset, End: offset + len(name)},
			Severity: severityFor(CodeUndefinedIdentifier),
			Code:     CodeUndefinedIdentifier,
			Message:  fmt.Sprintf("undefined identifier '%s'", name),
			Source:   source,
		})
	}
}
