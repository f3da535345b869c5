package ast

// Comment is a short (`--`) or long (`--[[ ]]`) comment, retained only when
// the parser is invoked with Options.Comments. Used by declaration doc-block
// extraction (a comment immediately preceding a LocalStatement or
// FunctionDeclaration becomes that declaration's documentation).
type Comment struct {
	Base
	Text   string
	IsLong bool
}

// Chunk is the root of the syntax tree: the whole source buffer.
type Chunk struct {
	Base
	Body     []Statement
	Comments []*Comment
}
