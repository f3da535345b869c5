package parser

import (
	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/lexer"
)

func (p *parser) returnStatement() ast.Statement {
	start := p.cur.Start
	p.expect(lexer.KwReturn)
	var args []ast.Expression
	if !p.blockEnd() && p.cur.Kind != lexer.Semi {
		args = append(args, p.expression())
		for p.accept(lexer.Comma) {
			args = append(args, p.expression())
		}
	}
	end := p.prevEnd()
	p.accept(lexer.Semi)
	return &ast.ReturnStatement{Base: mkBase(start, end), Arguments: args}
}

func (p *parser) ifStatement() ast.Statement {
	start := p.cur.Start
	var clauses []*ast.IfClause

	p.expect(lexer.KwIf)
	cond := p.expression()
	p.expect(lexer.KwThen)
	body := p.block()
	clauses = append(clauses, &ast.IfClause{
		Base: mkBase(start, p.prevEnd()), Condition: cond, Body: body,
	})

	for p.cur.Kind == lexer.KwElseif {
		cStart := p.cur.Start
		p.next()
		cond := p.expression()
		p.expect(lexer.KwThen)
		body := p.block()
		clauses = append(clauses, &ast.IfClause{
			Base: mkBase(cStart, p.prevEnd()), Condition: cond, Body: body,
		})
	}

	if p.cur.Kind == lexer.KwElse {
		cStart := p.cur.Start
		p.next()
		body := p.block()
		clauses = append(clauses, &ast.IfClause{
			Base: mkBase(cStart, p.prevEnd()), Body: body,
		})
	}

	end := p.expect(lexer.KwEnd)
	return &ast.IfStatement{Base: mkBase(start, end.End), Clauses: clauses}
}

func (p *parser) whileStatement() ast.Statement {
	start := p.cur.Start
	p.expect(lexer.KwWhile)
	cond := p.expression()
	p.expect(lexer.KwDo)
	body := p.block()
	end := p.expect(lexer.KwEnd)
	return &ast.WhileStatement{Base: mkBase(start, end.End), Condition: cond, Body: body}
}

func (p *parser) repeatStatement() ast.Statement {
	start := p.cur.Start
	p.expect(lexer.KwRepeat)
	body := p.block()
	p.expect(lexer.KwUntil)
	cond := p.expression()
	return &ast.RepeatStatement{Base: mkBase(start, cond.Loc().End), Condition: cond, Body: body}
}

// forStatement disambiguates numeric (`for i = a, b[, c] do`) from generic
// (`for k, v in iter do`) forms by looking past the first name.
func (p *parser) forStatement() ast.Statement {
	start := p.cur.Start
	p.expect(lexer.KwFor)
	firstTok := p.expect(lexer.Name)
	first := identFromToken(firstTok)

	if p.cur.Kind == lexer.Assign {
		p.next()
		from := p.expression()
		p.expect(lexer.Comma)
		to := p.expression()
		var step ast.Expression
		if p.accept(lexer.Comma) {
			step = p.expression()
		}
		p.expect(lexer.KwDo)
		body := p.block()
		end := p.expect(lexer.KwEnd)
		return &ast.ForNumericStatement{
			Base: mkBase(start, end.End), Variable: first,
			Start: from, Stop: to, Step: step, Body: body,
		}
	}

	names := []*ast.Identifier{first}
	for p.accept(lexer.Comma) {
		nameTok := p.expect(lexer.Name)
		names = append(names, identFromToken(nameTok))
	}
	p.expect(lexer.KwIn)
	iterators := []ast.Expression{p.expression()}
	for p.accept(lexer.Comma) {
		iterators = append(iterators, p.expression())
	}
	p.expect(lexer.KwDo)
	body := p.block()
	end := p.expect(lexer.KwEnd)
	return &ast.ForGenericStatement{
		Base: mkBase(start, end.End), Names: names, Iterators: iterators, Body: body,
	}
}

// functionStatement parses `function Name{.Name}[:Name](...) body end`.
// A trailing `:Name` makes the declaration a method and the parameter list
// parsed here gets an implicit leading `self`, matching Lua 5.3 sugar.
func (p *parser) functionStatement() ast.Statement {
	start := p.cur.Start
	p.expect(lexer.KwFunction)

	nameTok := p.expect(lexer.Name)
	var target ast.Expression = identFromToken(nameTok)
	isMethod := false
	for p.cur.Kind == lexer.Dot || p.cur.Kind == lexer.Colon {
		indexer := "."
		if p.cur.Kind == lexer.Colon {
			indexer = ":"
		}
		p.next()
		fieldTok := p.expect(lexer.Name)
		field := identFromToken(fieldTok)
		target = &ast.MemberExpression{
			Base:       ast.NewBase(start.Offset, fieldTok.End.Offset, ast.Loc{Start: start, End: fieldTok.End}),
			Object:     target,
			Identifier: field,
			Indexer:    indexer,
		}
		if indexer == ":" {
			isMethod = true
			break
		}
	}

	p.expect(lexer.LParen)
	var params []*ast.Identifier
	if isMethod {
		params = append(params, &ast.Identifier{Base: mkBase(start, start), Name: "self"})
	}
	vararg := false
	if p.cur.Kind != lexer.RParen {
		for {
			if p.cur.Kind == lexer.Ellipsis {
				p.next()
				vararg = true
				break
			}
			pTok := p.expect(lexer.Name)
			params = append(params, identFromToken(pTok))
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}
	p.expect(lexer.RParen)
	body := p.block()
	end := p.expect(lexer.KwEnd)

	return &ast.FunctionDeclaration{
		Base: mkBase(start, end.End), Identifier: target, IsLocal: false,
		Parameters: params, IsVararg: vararg, Body: body,
	}
}

// localStatement parses `local Name{,Name} [= expr{,expr}]` and
// `local function Name(...) body end`.
func (p *parser) localStatement() ast.Statement {
	start := p.cur.Start
	p.expect(lexer.KwLocal)

	if p.cur.Kind == lexer.KwFunction {
		p.next()
		nameTok := p.expect(lexer.Name)
		name := identFromToken(nameTok)
		params, vararg, body, end := p.funcBodyRest()
		return &ast.FunctionDeclaration{
			Base: mkBase(start, end), Identifier: name, IsLocal: true,
			Parameters: params, IsVararg: vararg, Body: body,
		}
	}

	nameTok := p.expect(lexer.Name)
	names := []*ast.Identifier{identFromToken(nameTok)}
	for p.accept(lexer.Comma) {
		nTok := p.expect(lexer.Name)
		names = append(names, identFromToken(nTok))
	}

	var init []ast.Expression
	end := p.prevEnd()
	if p.accept(lexer.Assign) {
		init = append(init, p.expression())
		for p.accept(lexer.Comma) {
			init = append(init, p.expression())
		}
		end = p.prevEnd()
	}
	return &ast.LocalStatement{Base: mkBase(start, end), Names: names, Init: init}
}

func (p *parser) labelStatement() ast.Statement {
	start := p.cur.Start
	p.expect(lexer.DColon)
	nameTok := p.expect(lexer.Name)
	end := p.expect(lexer.DColon)
	return &ast.LabelStatement{Base: mkBase(start, end.End), Name: nameTok.Text}
}

// exprStatement parses either a call statement or an assignment statement,
// both of which begin with a prefix (suffixed) expression; the two are
// disambiguated by what follows.
func (p *parser) exprStatement() ast.Statement {
	start := p.cur.Start
	first := p.suffixedExpr()

	if p.cur.Kind != lexer.Assign && p.cur.Kind != lexer.Comma {
		call, ok := first.(*ast.CallExpression)
		if !ok {
			p.errorf("syntax error near '%s'", p.cur.Text)
		}
		return &ast.CallStatement{Base: mkBase(start, call.Loc().End), Call: call}
	}

	targets := []ast.Expression{first}
	for p.accept(lexer.Comma) {
		targets = append(targets, p.suffixedExpr())
	}
	for _, t := range targets {
		switch t.(type) {
		case *ast.Identifier, *ast.MemberExpression, *ast.IndexExpression:
		default:
			p.errorf("syntax error near '%s'", p.cur.Text)
		}
	}
	p.expect(lexer.Assign)
	init := []ast.Expression{p.expression()}
	for p.accept(lexer.Comma) {
		init = append(init, p.expression())
	}
	end := p.prevEnd()
	return &ast.AssignmentStatement{Base: mkBase(start, end), Targets: targets, Init: init}
}
