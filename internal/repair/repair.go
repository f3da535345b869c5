// Package repair implements the completion-only buffer repair heuristics:
// a small, fully enumerated set of scratch edits near the caret that turn
// an otherwise-unparsable partial expression into something the parser
// accepts, so completion can resolve a node at the caret. Repairs never
// touch the caller's original buffer and must not introduce bindings that
// leak into diagnostics passes (diagnostics always run against the
// unrepaired buffer).
package repair

import "strings"

const placeholder = "placeholder"

// Result carries the repaired buffer and the offset to resolve against it
// (the original caret offset, adjusted to land inside whatever text was
// inserted).
type Result struct {
	Buffer       string
	ResolveAt    int
	WasRepaired  bool
}

// Apply inspects the line containing offset and, if it matches one of the
// recognized partial-expression shapes, returns a scratch-repaired buffer.
// If no repair applies, Result.Buffer equals buffer unchanged and
// WasRepaired is false.
func Apply(buffer string, offset int) Result {
	if offset < 0 {
		offset = 0
	}
	if offset > len(buffer) {
		offset = len(buffer)
	}

	lineStart := strings.LastIndexByte(buffer[:offset], '\n') + 1
	line := buffer[lineStart:offset]
	trimmed := strings.TrimRight(line, " \t")

	switch {
	case strings.HasSuffix(trimmed, "."):
		insert := placeholder
		if isStatementStart(trimmed[:len(trimmed)-1]) {
			insert = placeholder + " = 0"
		}
		return insertAt(buffer, offset, insert)

	case strings.HasSuffix(trimmed, ":"):
		return insertAt(buffer, offset, placeholder+"()")

	case isBareIdentifierAtStatementStart(trimmed):
		return insertAt(buffer, offset, " = 0")

	case strings.TrimSpace(line) == "":
		return insertAt(buffer, offset, placeholder+" = 0")
	}

	return Result{Buffer: buffer, ResolveAt: offset}
}

func insertAt(buffer string, offset int, text string) Result {
	repaired := buffer[:offset] + text + buffer[offset:]
	// land one byte inside the inserted text, safely past any leading
	// space or punctuation the parser needs to see first.
	resolveAt := offset + 1
	if resolveAt > len(repaired) {
		resolveAt = len(repaired)
	}
	return Result{Buffer: repaired, ResolveAt: resolveAt, WasRepaired: true}
}

// isStatementStart reports whether prefix (the line up to the trailing dot)
// is one unbroken expression that opens the statement, such as "context"
// or "context.prev", rather than the tail of a longer statement such as
// "local x = context".
func isStatementStart(prefix string) bool {
	s := strings.TrimSpace(prefix)
	return s != "" && !strings.ContainsAny(s, " \t=")
}

// isBareIdentifierAtStatementStart reports whether trimmed is a lone
// identifier-looking token with nothing before it on the line.
func isBareIdentifierAtStatementStart(trimmed string) bool {
	s := strings.TrimSpace(trimmed)
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if i > 0 && !isLetter && !isDigit {
			return false
		}
	}
	return true
}
