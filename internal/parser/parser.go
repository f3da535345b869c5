// Package parser is a hand-written, error-tolerant recursive-descent parser
// for the hook script language (a Lua 5.3 dialect). It never panics across
// its public boundary: on a syntax error it returns the partially built AST
// subtree alongside a single SyntaxError, per the engine's "buffer may be
// invalid mid-edit" contract.
package parser

import (
	"fmt"
	"strings"

	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/lexer"
)

// Options controls parsing behavior.
type Options struct {
	// Comments, when true, retains comment tokens on the resulting Chunk.
	Comments bool
}

// SyntaxError is the single diagnostic-worthy failure a parse can produce.
// Offset is a single-byte range start; Message has any lexer/parser
// position suffix already stripped (the caller attaches position
// formatting itself, per ).
type SyntaxError struct {
	Offset  int
	Loc     ast.Loc
	Message string
}

func (e *SyntaxError) Error() string { return e.Message }

// Result is the outcome of a Parse call.
type Result struct {
	Chunk *ast.Chunk
	Err   *SyntaxError
}

// Parse tokenizes and parses src, tolerating a single syntax error: on
// failure it returns whatever statements were built before the error,
// wrapped in a non-nil Chunk, plus a SyntaxError. A chunk is always
// returned (never nil) so downstream passes can degrade gracefully.
func Parse(src string, opts Options) *Result {
	p := &parser{src: src, sc: lexer.NewScanner(src), opts: opts}
	p.next()
	p.next()

	res := &Result{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				if se, ok := r.(*SyntaxError); ok {
					res.Err = se
					return
				}
				panic(r)
			}
		}()
		body := p.block()
		if p.cur.Kind != lexer.EOF {
			p.errorf("'<eof>' expected near '%s'", p.cur.Text)
		}
		res.Chunk = &ast.Chunk{
			Base: ast.NewBase(0, len(src), ast.Loc{Start: ast.Pos{Line: 1}, End: p.cur.End}),
			Body: body,
		}
	}()

	if res.Chunk == nil {
		res.Chunk = &ast.Chunk{
			Base: ast.NewBase(0, len(src), ast.Loc{}),
			Body: p.partialBody,
		}
	}
	if opts.Comments {
		res.Chunk.Comments = p.comments()
	}
	return res
}

type parser struct {
	src  string
	sc   *lexer.Scanner
	opts Options

	cur, ahead lexer.Token

	// partialBody accumulates top-level statements parsed before a hard
	// error aborts the walk, so Parse can still hand back a usable AST.
	partialBody []ast.Statement
	depth       int
}

const maxDepth = 200

func (p *parser) next() {
	p.cur = p.ahead
	p.ahead = p.sc.Scan()
	for p.cur.Kind == lexer.ErrorToken && p.cur.Text == "" {
		// scanner produced an empty placeholder (shouldn't normally
		// happen); advance defensively to avoid an infinite loop.
		p.cur = p.ahead
		p.ahead = p.sc.Scan()
	}
}

func (p *parser) comments() []*ast.Comment {
	toks := p.sc.Comments()
	out := make([]*ast.Comment, 0, len(toks))
	for _, t := range toks {
		out = append(out, &ast.Comment{
			Base:   ast.NewBase(t.Start.Offset, t.End.Offset, ast.Loc{Start: t.Start, End: t.End}),
			Text:   t.Text,
			IsLong: t.IsLong,
		})
	}
	return out
}

func (p *parser) errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	panic(&SyntaxError{
		Offset:  p.cur.Start.Offset,
		Loc:     ast.Loc{Start: p.cur.Start, End: p.cur.Start},
		Message: msg,
	})
}

func (p *parser) expect(k lexer.Kind) lexer.Token {
	if p.cur.Kind != k {
		p.errorf("'%s' expected near '%s'", k.String(), p.cur.Text)
	}
	t := p.cur
	p.next()
	return t
}

func (p *parser) accept(k lexer.Kind) bool {
	if p.cur.Kind == k {
		p.next()
		return true
	}
	return false
}

// blockEnd reports whether the current token closes an enclosing block.
func (p *parser) blockEnd() bool {
	switch p.cur.Kind {
	case lexer.EOF, lexer.KwEnd, lexer.KwElse, lexer.KwElseif, lexer.KwUntil:
		return true
	}
	return false
}

func (p *parser) block() []ast.Statement {
	p.depth++
	if p.depth > maxDepth {
		p.errorf("chunk has too many syntax levels")
	}
	defer func() { p.depth-- }()

	var body []ast.Statement
	for !p.blockEnd() {
		if p.cur.Kind == lexer.KwReturn {
			body = append(body, p.returnStatement())
			if p.depth == 1 {
				p.partialBody = body
			}
			break
		}
		stmt := p.statement()
		if stmt != nil {
			body = append(body, stmt)
		}
		if p.depth == 1 {
			p.partialBody = body
		}
	}
	return body
}

func identFromToken(t lexer.Token) *ast.Identifier {
	return &ast.Identifier{
		Base: ast.NewBase(t.Start.Offset, t.End.Offset, ast.Loc{Start: t.Start, End: t.End}),
		Name: t.Text,
	}
}

func (p *parser) statement() ast.Statement {
	start := p.cur.Start
	switch p.cur.Kind {
	case lexer.Semi:
		p.next()
		return nil
	case lexer.KwIf:
		return p.ifStatement()
	case lexer.KwWhile:
		return p.whileStatement()
	case lexer.KwDo:
		p.next()
		body := p.block()
		end := p.expect(lexer.KwEnd)
		return &ast.DoStatement{Base: mkBase(start, end.End), Body: body}
	case lexer.KwFor:
		return p.forStatement()
	case lexer.KwRepeat:
		return p.repeatStatement()
	case lexer.KwFunction:
		return p.functionStatement()
	case lexer.KwLocal:
		return p.localStatement()
	case lexer.DColon:
		return p.labelStatement()
	case lexer.KwBreak:
		p.next()
		return &ast.BreakStatement{Base: mkBase(start, p.prevEnd())}
	case lexer.KwGoto:
		p.next()
		name := p.expect(lexer.Name)
		return &ast.GotoStatement{Base: mkBase(start, name.End), Label: name.Text}
	default:
		return p.exprStatement()
	}
}

// prevEnd returns the end offset of the token just consumed (cur.Start,
// since next() has already advanced).
func (p *parser) prevEnd() ast.Pos { return p.cur.Start }

func mkBase(start, end ast.Pos) ast.Base {
	return ast.NewBase(start.Offset, end.Offset, ast.Loc{Start: start, End: end})
}
