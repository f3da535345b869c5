package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatIndentsThenBlock(t *testing.T) {
	src := "if a then\nx()\nend"
	want := "if a then\n  x()\nend"
	assert.Equal(t, want, Format(src))
}

func TestFormatReindentsElseBody(t *testing.T) {
	src := "if a then\nx()\nelseif b then\ny()\nelse\nz()\nend"
	want := "if a then\n  x()\nelseif b then\n  y()\nelse\n  z()\nend"
	assert.Equal(t, want, Format(src))
}

func TestFormatIndentsFunctionBody(t *testing.T) {
	src := "function foo(a, b)\nreturn a + b\nend"
	want := "function foo(a, b)\n  return a + b\nend"
	assert.Equal(t, want, Format(src))
}

func TestFormatNeverGoesNegativeDepth(t *testing.T) {
	src := "end\nend\nx()"
	assert.Equal(t, "end\nend\nx()", Format(src))
}

func TestFormatCommaSpacing(t *testing.T) {
	assert.Equal(t, "local t = {1, 2, 3}", Format("local t = {1,2,3}"))
}

func TestFormatOperatorSpacing(t *testing.T) {
	assert.Equal(t, "local x = 1 + 2", Format("local x=1+2"))
}

func TestFormatBracketSpacing(t *testing.T) {
	assert.Equal(t, "foo(1, 2)", Format("foo( 1, 2 )"))
}

func TestFormatPreservesBlankLines(t *testing.T) {
	assert.Equal(t, "x()\n\ny()", Format("x()\n\ny()"))
}

func TestFormatIsIdempotent(t *testing.T) {
	src := "if a then\nx(1,2)\nelseif b then\ny()\nelse\nz()\nend\nfunction f(a, b)\nreturn a+b\nend"
	once := Format(src)
	twice := Format(once)
	assert.Equal(t, once, twice)
}
