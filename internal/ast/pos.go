// Package ast defines the syntax tree produced by internal/parser for the
// hook script language, a Lua 5.3 dialect.
package ast

// Pos is a single point in a source buffer.
type Pos struct {
	Line   int // 1-based
	Column int // 0-based
	Offset int // 0-based byte index
}

// Less reports whether p sorts before other by offset.
func (p Pos) Less(other Pos) bool {
	return p.Offset < other.Offset
}

// Loc is the start/end position pair for a node, in line/column terms.
type Loc struct {
	Start Pos
	End   Pos
}

// Range is the end-exclusive byte range [Start, End) of a node.
type Range struct {
	Start int
	End   int
}

// Contains reports whether offset lies within r (end-exclusive).
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// ContainsInclusive reports whether offset lies within r, including the end
// offset. Useful for caret positions, which may sit immediately after the
// last character of a node.
func (r Range) ContainsInclusive(offset int) bool {
	return offset >= r.Start && offset <= r.End
}
