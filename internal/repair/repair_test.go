package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDotAtExpressionPosition(t *testing.T) {
	buffer := "local x = context."
	res := Apply(buffer, len(buffer))
	require.True(t, res.WasRepaired)
	assert.Contains(t, res.Buffer, "context.placeholder")
	assert.True(t, res.ResolveAt > 0 && res.ResolveAt <= len(res.Buffer))
}

func TestApplyDotAtStatementStartUsesAssignment(t *testing.T) {
	buffer := "context."
	res := Apply(buffer, len(buffer))
	require.True(t, res.WasRepaired)
	assert.Contains(t, res.Buffer, "placeholder = 0")
}

func TestApplyColonForMethodCompletion(t *testing.T) {
	buffer := "local x = obj:"
	res := Apply(buffer, len(buffer))
	require.True(t, res.WasRepaired)
	assert.Contains(t, res.Buffer, "placeholder()")
}

func TestApplyBareIdentifierAtStatementStart(t *testing.T) {
	buffer := "conte"
	res := Apply(buffer, len(buffer))
	require.True(t, res.WasRepaired)
	assert.Contains(t, res.Buffer, "conte = 0")
}

func TestApplyBlankLineInsertsPlaceholderStatement(t *testing.T) {
	buffer := "local x = 1\n"
	res := Apply(buffer, len(buffer))
	require.True(t, res.WasRepaired)
	assert.Contains(t, res.Buffer, "placeholder = 0")
}

func TestApplyNoRepairNeededLeavesBufferUnchanged(t *testing.T) {
	buffer := "local x = 1"
	res := Apply(buffer, len(buffer))
	assert.False(t, res.WasRepaired)
	assert.Equal(t, buffer, res.Buffer)
	assert.Equal(t, len(buffer), res.ResolveAt)
}

func TestApplyClampsOutOfRangeOffsets(t *testing.T) {
	buffer := "local x = 1"
	assert.NotPanics(t, func() {
		Apply(buffer, -5)
		Apply(buffer, 1000)
	})
}

func TestApplyDoesNotMutateOriginalBuffer(t *testing.T) {
	buffer := "context."
	original := buffer
	_ = Apply(buffer, len(buffer))
	assert.Equal(t, original, buffer)
}
