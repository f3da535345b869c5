// Package hostmodel is the declarative catalog of the embedding host's
// globals, helpers, context shapes, and return contracts. It is
// ordinary data, never code: the engine is constructed with a Model and
// every other pass treats it as an immutable, injected value rather than
// a global it reaches for on its own.
package hostmodel

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Param describes one parameter of a helper or a field of a context
// object.
type Param struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Optional    bool   `yaml:"optional,omitempty"`
}

// Helper is one entry of the helper catalog (`helpers.<name>(...)`).
type Helper struct {
	Name        string  `yaml:"name"`
	Signature   string  `yaml:"signature"`
	Description string  `yaml:"description"`
	Params      []Param `yaml:"params"`
	Returns     string  `yaml:"returns"`
	Example     string  `yaml:"example,omitempty"`
}

// ContextField is one entry of a hook's context schema, or a universal
// field present for every hook.
type ContextField = Param

// ReturnContract describes the shape a script must return for a given
// execution mode.
type ReturnContract struct {
	Mode            string   `yaml:"mode"`
	Description     string   `yaml:"description"`
	RequiredFields  []string `yaml:"requiredFields"`
	OptionalFields  []string `yaml:"optionalFields"`
	Example         string   `yaml:"example"`
}

// BuiltinMember is one documented member of a builtin library (string.*,
// table.*, math.*).
type BuiltinMember struct {
	Name        string `yaml:"name"`
	Signature   string `yaml:"signature"`
	Description string `yaml:"description"`
}

// Model is the full catalog. Zero value is invalid; use Load or Default.
type Model struct {
	DisabledGlobals map[string]string          `yaml:"disabledGlobals"`
	StandardGlobals []string                   `yaml:"standardGlobals"`
	Helpers         []Helper                   `yaml:"helpers"`
	ContextByHook   map[string][]ContextField  `yaml:"contextByHook"`
	UniversalFields []ContextField             `yaml:"universalFields"`
	NestedObjects   map[string][]ContextField  `yaml:"nestedObjects"`
	ReturnContracts map[string]ReturnContract  `yaml:"returnContracts"`
	Snippets        map[string]string          `yaml:"snippets"`
	Keywords        []string                   `yaml:"keywords"`
	Builtins        map[string][]BuiltinMember `yaml:"builtins"`

	helperIndex map[string]Helper
}

//go:embed data/default.yaml
var defaultYAML []byte

// Default loads and caches the catalog embedded at build time: the parse
// and helper-index build run once, on first call, and every caller
// thereafter shares the same *Model.
var Default = sync.OnceValue(func() *Model {
	m, err := Load(defaultYAML)
	if err != nil {
		// the embedded catalog is a build-time asset, not user input; a
		// parse failure here is a programmer error and the engine must
		// fail fast constructing it.
		panic(fmt.Sprintf("hostmodel: embedded default.yaml is invalid: %v", err))
	}
	return m
})

// Load deserializes a Model from YAML bytes. It is the single entry point
// for building a Model from host-supplied data.
func Load(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("hostmodel: parse: %w", err)
	}
	m.helperIndex = make(map[string]Helper, len(m.Helpers))
	for _, h := range m.Helpers {
		m.helperIndex[h.Name] = h
	}
	return &m, nil
}

// IsDisabled reports whether name is a disabled global and returns its
// user-facing message.
func (m *Model) IsDisabled(name string) (string, bool) {
	msg, ok := m.DisabledGlobals[name]
	return msg, ok
}

// IsStandardGlobal reports whether name is an allowed global identifier.
func (m *Model) IsStandardGlobal(name string) bool {
	for _, g := range m.StandardGlobals {
		if g == name {
			return true
		}
	}
	return false
}

// Helper looks up a helper catalog entry by name.
func (m *Model) Helper(name string) (Helper, bool) {
	h, ok := m.helperIndex[name]
	return h, ok
}

// ContextFieldsFor returns the hook-specific fields for hookName, or nil
// if the hook is unknown.
func (m *Model) ContextFieldsFor(hookName string) []ContextField {
	return m.ContextByHook[hookName]
}

// FindContextField searches a hook's fields then the universal fields.
func (m *Model) FindContextField(hookName, name string) (ContextField, bool) {
	for _, f := range m.ContextByHook[hookName] {
		if f.Name == name {
			return f, true
		}
	}
	for _, f := range m.UniversalFields {
		if f.Name == name {
			return f, true
		}
	}
	return ContextField{}, false
}

// FindNestedField looks up a field of a nested object schema such as
// "PipelineUser".
func (m *Model) FindNestedField(objectName, fieldName string) (ContextField, bool) {
	for _, f := range m.NestedObjects[objectName] {
		if f.Name == fieldName {
			return f, true
		}
	}
	return ContextField{}, false
}

// FindBuiltinMember looks up libName.memberName (e.g. "string", "match").
func (m *Model) FindBuiltinMember(libName, memberName string) (BuiltinMember, bool) {
	for _, b := range m.Builtins[libName] {
		if b.Name == memberName {
			return b, true
		}
	}
	return BuiltinMember{}, false
}

// ReturnContractFor looks up the contract for an execution mode.
func (m *Model) ReturnContractFor(mode string) (ReturnContract, bool) {
	c, ok := m.ReturnContracts[mode]
	return c, ok
}
