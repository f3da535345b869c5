// Package typeinfer holds the Type tagged-variant sum and the
// pure construction/assignability helpers every other pass reasons about.
// The actual expression-walking inference rules live in
// internal/scope, since binding and typing happen in a single interleaved
// pass there; this package is the vocabulary, not the walker.
package typeinfer

import "strings"

// Kind discriminates the Type variant.
type Kind int

const (
	Unknown Kind = iota
	Primitive
	Table
	Function
	Union
	Literal
	Ref
	Global
	Context
)

// NamedType pairs a parameter/field name with its Type, used for function
// parameter lists and helper-catalog signatures.
type NamedType struct {
	Name string
	Type *Type
}

// Type is the single representation used across scope binding, the host
// model, diagnostics, and every feature adapter. Only the fields relevant
// to Kind are populated; callers must switch on Kind first.
type Type struct {
	Kind Kind

	// Primitive: one of "string", "number", "integer", "boolean", "nil".
	Primitive string

	// Table
	Fields     map[string]*Type
	IndexKey   *Type
	IndexValue *Type
	Bases      []*Type

	// Function
	Params  []NamedType
	Returns []*Type
	IsAsync bool
	Doc     string

	// Union
	Options []*Type

	// Literal
	Base  *Type
	Value any

	// Ref / Global / Context: a bare name (e.g. "context", "helpers",
	// "user" for context("user")).
	Name string
}

// Primitive type constants reused across the codebase.
var (
	String  = &Type{Kind: Primitive, Primitive: "string"}
	Number  = &Type{Kind: Primitive, Primitive: "number"}
	Integer = &Type{Kind: Primitive, Primitive: "integer"}
	Boolean = &Type{Kind: Primitive, Primitive: "boolean"}
	Nil     = &Type{Kind: Primitive, Primitive: "nil"}
	Any     = &Type{Kind: Unknown}
)

// NewTable constructs an empty table type ready to receive fields.
func NewTable() *Type {
	return &Type{Kind: Table, Fields: map[string]*Type{}}
}

// NewLiteral wraps a concrete value with its widened base type.
func NewLiteral(base *Type, value any) *Type {
	return &Type{Kind: Literal, Base: base, Value: value}
}

// NewGlobal names a bare global identifier's type, e.g. Global("context").
func NewGlobal(name string) *Type { return &Type{Kind: Global, Name: name} }

// NewContext names a context(o) object, e.g. Context("user").
func NewContext(name string) *Type { return &Type{Kind: Context, Name: name} }

// Widen collapses a literal to its declared base type; any other Kind is
// returned unchanged.
func Widen(t *Type) *Type {
	if t == nil {
		return Any
	}
	if t.Kind == Literal && t.Base != nil {
		return t.Base
	}
	return t
}

// NewUnion flattens and deduplicates its operands: nested unions are
// flattened, duplicate members (by Equal) are dropped, a singleton
// collapses to that single type, and an empty input collapses to Unknown
// ("never" has no separate representation — callers that need to
// distinguish "no value" from "any value" check len(options) explicitly
// before calling Union).
func NewUnion(types ...*Type) *Type {
	var flat []*Type
	for _, t := range types {
		if t == nil {
			continue
		}
		if t.Kind == Union {
			flat = append(flat, t.Options...)
			continue
		}
		flat = append(flat, t)
	}
	var deduped []*Type
	for _, t := range flat {
		dup := false
		for _, existing := range deduped {
			if Equal(existing, t) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, t)
		}
	}
	switch len(deduped) {
	case 0:
		return Any
	case 1:
		return deduped[0]
	default:
		return &Type{Kind: Union, Options: deduped}
	}
}

// Equal performs a shallow structural comparison sufficient for
// deduplication; it does not deep-compare table field maps.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Primitive:
		return a.Primitive == b.Primitive
	case Ref, Global, Context:
		return a.Name == b.Name
	case Literal:
		return a.Value == b.Value
	default:
		return a == b
	}
}

// Assignable reports whether a value of type src may be assigned where dst
// is expected.
func Assignable(dst, src *Type) bool {
	if dst == nil || src == nil || dst.Kind == Unknown || src.Kind == Unknown {
		return true
	}
	if src.Kind == Literal {
		return Assignable(dst, src.Base)
	}
	if dst.Kind == Literal {
		return Assignable(dst.Base, src)
	}
	if dst.Kind == Primitive && dst.Primitive == "number" && src.Kind == Primitive && src.Primitive == "integer" {
		return true
	}
	if dst.Kind == Union {
		if src.Kind == Primitive && src.Primitive == "nil" {
			for _, opt := range dst.Options {
				if opt.Kind == Primitive && opt.Primitive == "nil" {
					return true
				}
			}
		}
		for _, opt := range dst.Options {
			if Assignable(opt, src) {
				return true
			}
		}
		return false
	}
	if dst.Kind == Table && src.Kind == Table {
		return true
	}
	if dst.Kind == Function && src.Kind == Function {
		return len(dst.Params) == len(src.Params)
	}
	if dst.Kind == Primitive && src.Kind == Primitive {
		return dst.Primitive == src.Primitive
	}
	return dst.Kind == src.Kind
}

// FieldLookup resolves name on t's field map, falling through Bases
// left-to-right (single-level metatable __index inheritance); returns
// Unknown if not found anywhere in the base chain.
func FieldLookup(t *Type, name string) *Type {
	if t == nil {
		return Any
	}
	if t.Kind != Table {
		return Any
	}
	if v, ok := t.Fields[name]; ok {
		return v
	}
	for _, base := range t.Bases {
		if v := FieldLookup(base, name); v.Kind != Unknown {
			return v
		}
	}
	return Any
}

// FormatType renders a Type for hover text and inlay hints.
func FormatType(t *Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind {
	case Unknown:
		return "unknown"
	case Primitive:
		return t.Primitive
	case Table:
		return "table"
	case Function:
		names := make([]string, len(t.Params))
		for i, p := range t.Params {
			names[i] = p.Name
		}
		return "function(" + strings.Join(names, ", ") + ")"
	case Union:
		s := ""
		for i, opt := range t.Options {
			if i > 0 {
				s += " | "
			}
			s += FormatType(opt)
		}
		return s
	case Literal:
		return FormatType(t.Base)
	case Ref:
		return t.Name
	case Global:
		return "global<" + t.Name + ">"
	case Context:
		return "context." + t.Name
	default:
		return "unknown"
	}
}
