package ast

// TableKey is a `[expr] = value` table constructor field.
type TableKey struct {
	Base
	Key   Expression
	Value Expression
}

func (*TableKey) expressionNode() {}

// TableKeyString is a `name = value` table constructor field. Key is kept
// as an Identifier even though it never resolves as a variable reference.
type TableKeyString struct {
	Base
	Key   *Identifier
	Value Expression
}

func (*TableKeyString) expressionNode() {}

// TableValue is a positional (array-style) table constructor entry.
type TableValue struct {
	Base
	Value Expression
}

func (*TableValue) expressionNode() {}

// TableConstructorExpression is a `{ ... }` expression. Fields holds
// *TableKey, *TableKeyString, or *TableValue elements in source order.
type TableConstructorExpression struct {
	Base
	Fields []Expression
}

func (*TableConstructorExpression) expressionNode() {}

// MemberExpression is `base.identifier` or `base:identifier`.
type MemberExpression struct {
	Base
	Object     Expression
	Identifier *Identifier
	Indexer    string // "." or ":"
}

func (*MemberExpression) expressionNode() {}

// IndexExpression is `base[index]`.
type IndexExpression struct {
	Base
	Object Expression
	Index  Expression
}

func (*IndexExpression) expressionNode() {}

// CallExpression is a function or method call. When Callee is a
// *MemberExpression with Indexer == ":" the call is a method call and an
// implicit self argument is understood by the type inferrer.
type CallExpression struct {
	Base
	Callee    Expression
	Arguments []Expression
}

func (*CallExpression) expressionNode() {}

// BinaryExpression covers arithmetic, relational, concatenation, and
// bitwise operators. Logical `and`/`or` use LogicalExpression instead.
type BinaryExpression struct {
	Base
	Operator string
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) expressionNode() {}

// LogicalExpression is `a and b` or `a or b`.
type LogicalExpression struct {
	Base
	Operator string
	Left     Expression
	Right    Expression
}

func (*LogicalExpression) expressionNode() {}

// UnaryExpression is `not`, `-`, `#`, or `~` applied to Argument.
type UnaryExpression struct {
	Base
	Operator string
	Argument Expression
}

func (*UnaryExpression) expressionNode() {}

// FunctionExpression is an anonymous function literal. It also forms the
// body of FunctionDeclaration.
type FunctionExpression struct {
	Base
	Parameters []*Identifier
	IsVararg   bool
	Body       []Statement
}

func (*FunctionExpression) expressionNode() {}
