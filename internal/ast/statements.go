package ast

// LocalStatement declares one or more local variables, optionally
// initialized. `local x, y = f()` supports multiple names per statement.
type LocalStatement struct {
	Base
	Names []*Identifier
	Init  []Expression
}

func (*LocalStatement) statementNode() {}

// AssignmentStatement assigns to one or more existing targets (variables,
// member expressions, or index expressions).
type AssignmentStatement struct {
	Base
	Targets []Expression
	Init    []Expression
}

func (*AssignmentStatement) statementNode() {}

// CallStatement is a call expression used as a statement.
type CallStatement struct {
	Base
	Call *CallExpression
}

func (*CallStatement) statementNode() {}

// ReturnStatement is `return expr, expr, ...`.
type ReturnStatement struct {
	Base
	Arguments []Expression
}

func (*ReturnStatement) statementNode() {}

// IfClause is one `if`/`elseif`/`else` arm of an IfStatement. Condition is
// nil for the trailing `else` arm.
type IfClause struct {
	Base
	Condition Expression
	Body      []Statement
}

// IfStatement is a full if/elseif*/else? chain.
type IfStatement struct {
	Base
	Clauses []*IfClause
}

func (*IfStatement) statementNode() {}

// WhileStatement is `while cond do body end`.
type WhileStatement struct {
	Base
	Condition Expression
	Body      []Statement
}

func (*WhileStatement) statementNode() {}

// RepeatStatement is `repeat body until cond`. Unlike WhileStatement, the
// condition's scope includes the body's locals.
type RepeatStatement struct {
	Base
	Condition Expression
	Body      []Statement
}

func (*RepeatStatement) statementNode() {}

// DoStatement is a bare `do ... end` block, introducing a new scope.
type DoStatement struct {
	Base
	Body []Statement
}

func (*DoStatement) statementNode() {}

// FunctionDeclaration is `function name(...) ... end` or
// `local function name(...) ... end`. The parser always populates
// Identifier, including on buffers rewritten by buffer repair (use
// FunctionExpression for true anonymous functions).
type FunctionDeclaration struct {
	Base
	Identifier Expression // *Identifier or *MemberExpression (for `function t.k()`)
	IsLocal    bool
	Parameters []*Identifier
	IsVararg   bool
	Body       []Statement
}

func (*FunctionDeclaration) statementNode() {}

// ForNumericStatement is `for i = start, stop[, step] do body end`.
type ForNumericStatement struct {
	Base
	Variable *Identifier
	Start    Expression
	Stop     Expression
	Step     Expression // nil if omitted
	Body     []Statement
}

func (*ForNumericStatement) statementNode() {}

// ForGenericStatement is `for k, v in iter(...) do body end`.
type ForGenericStatement struct {
	Base
	Names     []*Identifier
	Iterators []Expression
	Body      []Statement
}

func (*ForGenericStatement) statementNode() {}

// BreakStatement is `break`.
type BreakStatement struct{ Base }

func (*BreakStatement) statementNode() {}

// LabelStatement is `::name::`.
type LabelStatement struct {
	Base
	Name string
}

func (*LabelStatement) statementNode() {}

// GotoStatement is `goto name`.
type GotoStatement struct {
	Base
	Label string
}

func (*GotoStatement) statementNode() {}
