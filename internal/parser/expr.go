package parser

import (
	"github.com/oxhq/hookscript/internal/ast"
	"github.com/oxhq/hookscript/internal/lexer"
)

// binaryPrec gives left and right binding power for Lua 5.3 binary
// operators, per the reference manual's operator precedence table (lowest
// to highest): or; and; < > <= >= ~= ==; |; ~; &; << >>; .. (right-assoc);
// + -; * / // %; unary; ^ (right-assoc).
type precPair struct{ left, right int }

var binaryPrec = map[lexer.Kind]precPair{
	lexer.KwOr:     {1, 1},
	lexer.KwAnd:    {2, 2},
	lexer.LT:       {3, 3},
	lexer.GT:       {3, 3},
	lexer.LE:       {3, 3},
	lexer.GE:       {3, 3},
	lexer.NotEq:    {3, 3},
	lexer.Eq:       {3, 3},
	lexer.Pipe:     {4, 4},
	lexer.Tilde:    {5, 5},
	lexer.Amp:      {6, 6},
	lexer.Shl:      {7, 7},
	lexer.Shr:      {7, 7},
	lexer.Concat:   {9, 8}, // right-associative
	lexer.Plus:     {10, 10},
	lexer.Minus:    {10, 10},
	lexer.Star:     {11, 11},
	lexer.Slash:    {11, 11},
	lexer.DSlash:   {11, 11},
	lexer.Percent:  {11, 11},
	lexer.Caret:    {14, 13}, // right-associative, binds tighter than unary
}

const unaryPrec = 12

func operatorText(k lexer.Kind) string {
	switch k {
	case lexer.KwAnd:
		return "and"
	case lexer.KwOr:
		return "or"
	default:
		return k.String()
	}
}

// expression parses a full expression using precedence climbing.
func (p *parser) expression() ast.Expression {
	return p.binaryExpr(0)
}

func (p *parser) binaryExpr(minPrec int) ast.Expression {
	left := p.unaryExpr()
	for {
		prec, ok := binaryPrec[p.cur.Kind]
		if !ok || prec.left <= minPrec {
			break
		}
		opTok := p.cur
		p.next()
		right := p.binaryExpr(prec.right)
		start := left.Range().Start
		end := right.Range().End
		base := mkBase(left.Loc().Start, right.Loc().End)
		base.Rng = ast.Range{Start: start, End: end}
		switch opTok.Kind {
		case lexer.KwAnd, lexer.KwOr:
			left = &ast.LogicalExpression{Base: base, Operator: operatorText(opTok.Kind), Left: left, Right: right}
		default:
			left = &ast.BinaryExpression{Base: base, Operator: operatorText(opTok.Kind), Left: left, Right: right}
		}
	}
	return left
}

func (p *parser) unaryExpr() ast.Expression {
	switch p.cur.Kind {
	case lexer.KwNot, lexer.Minus, lexer.Hash, lexer.Tilde:
		opTok := p.cur
		p.next()
		arg := p.binaryExpr(unaryPrec)
		base := mkBase(opTok.Start, arg.Loc().End)
		return &ast.UnaryExpression{Base: base, Operator: operatorText(opTok.Kind), Argument: arg}
	default:
		return p.powExpr()
	}
}

// powExpr handles `^`'s right-associativity binding tighter than unary on
// its left operand (`-2^2` is `-(2^2)`) via the simple expedient of letting
// binaryExpr's recursive call for Caret pass through unaryExpr again; this
// wrapper exists only so unaryExpr's default case has a named target.
func (p *parser) powExpr() ast.Expression {
	return p.suffixedExpr()
}

// primaryExpr parses a literal, identifier, vararg, function literal, table
// constructor, or parenthesized expression.
func (p *parser) primaryExpr() ast.Expression {
	start := p.cur.Start
	switch p.cur.Kind {
	case lexer.KwNil:
		p.next()
		return &ast.NilLiteral{Base: mkBase(start, p.prevEnd())}
	case lexer.KwTrue:
		p.next()
		return &ast.BooleanLiteral{Base: mkBase(start, p.prevEnd()), Value: true}
	case lexer.KwFalse:
		p.next()
		return &ast.BooleanLiteral{Base: mkBase(start, p.prevEnd()), Value: false}
	case lexer.Ellipsis:
		p.next()
		return &ast.VarargLiteral{Base: mkBase(start, p.prevEnd())}
	case lexer.Number:
		tok := p.cur
		p.next()
		isInt, iv, fv, ok := lexer.ParseNumber(tok.Text)
		lit := &ast.NumericLiteral{Base: mkBase(start, tok.End), Raw: tok.Text}
		if ok {
			lit.IsInt = isInt
			lit.IntValue = iv
			lit.Value = fv
			if isInt {
				lit.Value = float64(iv)
			}
		}
		return lit
	case lexer.String:
		tok := p.cur
		p.next()
		return &ast.StringLiteral{Base: mkBase(start, tok.End), Value: tok.Text, Raw: tok.Text}
	case lexer.Name:
		tok := p.cur
		p.next()
		return identFromToken(tok)
	case lexer.LParen:
		p.next()
		inner := p.expression()
		end := p.expect(lexer.RParen)
		// a parenthesized expression truncates a multi-value expression to
		// one value; the AST does not model that distinction explicitly
		// (callers inspecting Arguments/Init treat the innermost node),
		// matching how query's return-schema inference already discards
		// extra values from a non-tail call.
		_ = end
		return inner
	case lexer.LBrace:
		return p.tableConstructor()
	case lexer.KwFunction:
		return p.functionBody(start)
	default:
		p.errorf("unexpected symbol near '%s'", p.cur.Text)
		return nil
	}
}

// suffixedExpr parses a primary expression followed by any chain of
// `.name`, `:name`, `[expr]`, `(args)`, or method-call suffixes.
func (p *parser) suffixedExpr() ast.Expression {
	expr := p.primaryExpr()
	for {
		start := expr.Range().Start
		switch p.cur.Kind {
		case lexer.Dot:
			p.next()
			nameTok := p.expect(lexer.Name)
			ident := identFromToken(nameTok)
			expr = &ast.MemberExpression{
				Base:       ast.NewBase(start, nameTok.End.Offset, ast.Loc{Start: expr.Loc().Start, End: nameTok.End}),
				Object:     expr,
				Identifier: ident,
				Indexer:    ".",
			}
		case lexer.Colon:
			p.next()
			nameTok := p.expect(lexer.Name)
			ident := identFromToken(nameTok)
			member := &ast.MemberExpression{
				Base:       ast.NewBase(start, nameTok.End.Offset, ast.Loc{Start: expr.Loc().Start, End: nameTok.End}),
				Object:     expr,
				Identifier: ident,
				Indexer:    ":",
			}
			args, end := p.callArgs()
			expr = &ast.CallExpression{
				Base:      ast.NewBase(start, end.Offset, ast.Loc{Start: expr.Loc().Start, End: end}),
				Callee:    member,
				Arguments: args,
			}
		case lexer.LBracket:
			p.next()
			idx := p.expression()
			endTok := p.expect(lexer.RBracket)
			expr = &ast.IndexExpression{
				Base:   ast.NewBase(start, endTok.End.Offset, ast.Loc{Start: expr.Loc().Start, End: endTok.End}),
				Object: expr,
				Index:  idx,
			}
		case lexer.LParen, lexer.String, lexer.LBrace:
			args, end := p.callArgs()
			expr = &ast.CallExpression{
				Base:      ast.NewBase(start, end.Offset, ast.Loc{Start: expr.Loc().Start, End: end}),
				Callee:    expr,
				Arguments: args,
			}
		default:
			return expr
		}
	}
}

// callArgs parses `(args)`, a single string literal, or a single table
// constructor used as sugar for a one-argument call.
func (p *parser) callArgs() ([]ast.Expression, ast.Pos) {
	switch p.cur.Kind {
	case lexer.LParen:
		p.next()
		var args []ast.Expression
		if p.cur.Kind != lexer.RParen {
			args = append(args, p.expression())
			for p.accept(lexer.Comma) {
				args = append(args, p.expression())
			}
		}
		end := p.expect(lexer.RParen)
		return args, end.End
	case lexer.String:
		lit := p.primaryExpr()
		return []ast.Expression{lit}, lit.Range().End
	case lexer.LBrace:
		tbl := p.tableConstructor()
		return []ast.Expression{tbl}, tbl.Range().End
	default:
		p.errorf("function arguments expected near '%s'", p.cur.Text)
		return nil, p.cur.Start
	}
}

func (p *parser) tableConstructor() ast.Expression {
	start := p.cur.Start
	p.expect(lexer.LBrace)
	var fields []ast.Expression
	for p.cur.Kind != lexer.RBrace {
		fStart := p.cur.Start
		switch {
		case p.cur.Kind == lexer.LBracket:
			p.next()
			key := p.expression()
			p.expect(lexer.RBracket)
			p.expect(lexer.Assign)
			val := p.expression()
			fields = append(fields, &ast.TableKey{
				Base: mkBase(fStart, val.Loc().End), Key: key, Value: val,
			})
		case p.cur.Kind == lexer.Name && p.ahead.Kind == lexer.Assign:
			nameTok := p.cur
			p.next()
			p.next()
			val := p.expression()
			fields = append(fields, &ast.TableKeyString{
				Base: mkBase(fStart, val.Loc().End), Key: identFromToken(nameTok), Value: val,
			})
		default:
			val := p.expression()
			fields = append(fields, &ast.TableValue{
				Base: mkBase(fStart, val.Loc().End), Value: val,
			})
		}
		if !p.accept(lexer.Comma) && !p.accept(lexer.Semi) {
			break
		}
	}
	end := p.expect(lexer.RBrace)
	return &ast.TableConstructorExpression{Base: mkBase(start, end.End), Fields: fields}
}

// functionBody parses the `function` keyword is already consumed by the
// caller in the `local function`/`function name` statement forms; here it
// is the leading token for an anonymous function expression and is
// consumed internally.
func (p *parser) functionBody(start ast.Pos) ast.Expression {
	p.expect(lexer.KwFunction)
	params, vararg, body, end := p.funcBodyRest()
	return &ast.FunctionExpression{
		Base:       mkBase(start, end),
		Parameters: params,
		IsVararg:   vararg,
		Body:       body,
	}
}

// funcBodyRest parses `(params) body end`, shared by function expressions
// and function declarations (the `function` keyword and any name have
// already been consumed by the caller).
func (p *parser) funcBodyRest() ([]*ast.Identifier, bool, []ast.Statement, ast.Pos) {
	p.expect(lexer.LParen)
	var params []*ast.Identifier
	vararg := false
	if p.cur.Kind != lexer.RParen {
		for {
			if p.cur.Kind == lexer.Ellipsis {
				p.next()
				vararg = true
				break
			}
			nameTok := p.expect(lexer.Name)
			params = append(params, identFromToken(nameTok))
			if !p.accept(lexer.Comma) {
				break
			}
		}
	}
	p.expect(lexer.RParen)
	body := p.block()
	end := p.expect(lexer.KwEnd)
	return params, vararg, body, end.End
}
