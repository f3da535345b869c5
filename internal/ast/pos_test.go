package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosLess(t *testing.T) {
	a := Pos{Offset: 3}
	b := Pos{Offset: 5}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: 10, End: 20}
	assert.False(t, r.Contains(9))
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(19))
	assert.False(t, r.Contains(20))
}

func TestRangeContainsInclusive(t *testing.T) {
	r := Range{Start: 10, End: 20}
	assert.False(t, r.ContainsInclusive(9))
	assert.True(t, r.ContainsInclusive(10))
	assert.True(t, r.ContainsInclusive(20))
	assert.False(t, r.ContainsInclusive(21))
}

func TestBasePromotesRangeAndLoc(t *testing.T) {
	loc := Loc{Start: Pos{Line: 1}, End: Pos{Line: 2}}
	b := NewBase(5, 9, loc)
	assert.Equal(t, Range{Start: 5, End: 9}, b.Range())
	assert.Equal(t, loc, b.Loc())
}
