// Package lexer tokenizes Lua 5.3 source for internal/parser. It tolerates
// invalid byte sequences and unterminated strings/comments by emitting an
// ErrorToken and resuming from the next byte, rather than aborting — the
// token-level half of the engine's "tolerate errors" mandate.
package lexer

import "github.com/oxhq/hookscript/internal/ast"

// Kind classifies a Token.
type Kind int

const (
	EOF Kind = iota
	ErrorToken

	Name
	Number
	String

	// Keywords
	KwAnd
	KwBreak
	KwDo
	KwElse
	KwElseif
	KwEnd
	KwFalse
	KwFor
	KwFunction
	KwGoto
	KwIf
	KwIn
	KwLocal
	KwNil
	KwNot
	KwOr
	KwRepeat
	KwReturn
	KwThen
	KwTrue
	KwUntil
	KwWhile

	// Symbols / operators
	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	DSlash        // //
	Percent       // %
	Caret         // ^
	Hash          // #
	Amp           // &
	Tilde         // ~
	Pipe          // |
	Shl           // <<
	Shr           // >>
	Eq            // ==
	NotEq         // ~=
	LE            // <=
	GE            // >=
	LT            // <
	GT            // >
	Assign        // =
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
	DColon        // ::
	Semi          // ;
	Colon         // :
	Comma         // ,
	Dot           // .
	Concat        // ..
	Ellipsis      // ...
)

var keywords = map[string]Kind{
	"and": KwAnd, "break": KwBreak, "do": KwDo, "else": KwElse,
	"elseif": KwElseif, "end": KwEnd, "false": KwFalse, "for": KwFor,
	"function": KwFunction, "goto": KwGoto, "if": KwIf, "in": KwIn,
	"local": KwLocal, "nil": KwNil, "not": KwNot, "or": KwOr,
	"repeat": KwRepeat, "return": KwReturn, "then": KwThen, "true": KwTrue,
	"until": KwUntil, "while": KwWhile,
}

// Token is a single lexical unit with its source position.
type Token struct {
	Kind    Kind
	Text    string // raw source text (decoded for strings; see ParseNumber for numbers)
	Start   ast.Pos
	End     ast.Pos
	Err     string // set when Kind == ErrorToken
	IsLong  bool   // string/comment used long-bracket syntax
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "<eof>"
	case ErrorToken:
		return "<error>"
	case Name:
		return "<name>"
	case Number:
		return "<number>"
	case String:
		return "<string>"
	}
	for text, kind := range keywords {
		if kind == k {
			return text
		}
	}
	if sym, ok := symbolText[k]; ok {
		return sym
	}
	return "<unknown>"
}

var symbolText = map[Kind]string{
	Plus: "+", Minus: "-", Star: "*", Slash: "/", DSlash: "//", Percent: "%",
	Caret: "^", Hash: "#", Amp: "&", Tilde: "~", Pipe: "|", Shl: "<<",
	Shr: ">>", Eq: "==", NotEq: "~=", LE: "<=", GE: ">=", LT: "<", GT: ">",
	Assign: "=", LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]", DColon: "::", Semi: ";", Colon: ":",
	Comma: ",", Dot: ".", Concat: "..", Ellipsis: "...",
}
