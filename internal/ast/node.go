package ast

// Node is implemented by every syntax tree element. Every node carries a
// byte Range; most additionally carry a line/column Loc (comments produced
// without -Wlocations and synthetic repair nodes may leave Loc zero).
type Node interface {
	Range() Range
	Loc() Loc
	node()
}

// Expression is a Node that can appear in value position.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node that can appear in a block's body.
type Statement interface {
	Node
	statementNode()
}

// Base is embedded by every concrete node to satisfy Node without
// repeating the Range/Loc accessors everywhere. Exported so that
// internal/parser (and any other package constructing AST nodes) can set
// it by field name in a composite literal.
type Base struct {
	Rng  Range
	Loc_ Loc
}

func (b Base) Range() Range { return b.Rng }
func (b Base) Loc() Loc     { return b.Loc_ }
func (Base) node()          {}

// NewBase constructs the embeddable Base for a node spanning [start,end)
// with the given line/column locations.
func NewBase(start, end int, loc Loc) Base {
	return Base{Rng: Range{Start: start, End: end}, Loc_: loc}
}
