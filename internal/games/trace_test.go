package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceExactTraceScoresHundred(t *testing.T) {
	tr := NewTrace(1000, 700, nil)

	// Tracing exactly over the scaled reference points leaves no
	// distance to penalize.
	acc, err := tr.Accuracy(tr.scaledReference("A"))
	require.NoError(t, err)
	assert.Equal(t, 100.0, acc)
}

func TestTraceEmptyTraceScoresZero(t *testing.T) {
	tr := NewTrace(1000, 700, nil)

	acc, err := tr.Accuracy(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)
}

func TestTraceAccuracyPenalizesDistance(t *testing.T) {
	tr := NewTrace(1000, 700, nil)

	// A single point 10px from its nearest reference point:
	// 100 - 10/5 = 98.
	ref := tr.scaledReference("A")
	off := []Point{{X: ref[0].X + 10, Y: ref[0].Y}}
	acc, err := tr.Accuracy(off)
	require.NoError(t, err)
	assert.InDelta(t, 98.0, acc, 0.11)
}

func TestTraceFarTraceFloorsAtZero(t *testing.T) {
	tr := NewTrace(1000, 700, nil)

	acc, err := tr.Accuracy([]Point{{X: 10000, Y: 10000}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)
}

func TestTraceCompletesWithMeanAccuracy(t *testing.T) {
	var completions, finalScore int
	tr := NewTrace(1000, 700, func(score int) {
		completions++
		finalScore = score
	})

	for range traceLetters {
		state := tr.State()
		letter := state.Data.(TraceData).Letter
		_, err := tr.NextLetter(tr.scaledReference(letter))
		require.NoError(t, err)
	}

	assert.True(t, tr.Complete())
	assert.Equal(t, 1, completions)
	assert.Equal(t, 100, finalScore)

	_, err := tr.NextLetter(nil)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestTraceSkipsBlankLetters(t *testing.T) {
	var finalScore int
	tr := NewTrace(1000, 700, func(score int) { finalScore = score })

	// One perfect letter, the rest skipped: the mean only covers
	// recorded attempts.
	_, err := tr.NextLetter(tr.scaledReference("A"))
	require.NoError(t, err)
	for i := 1; i < len(traceLetters); i++ {
		_, err := tr.NextLetter(nil)
		require.NoError(t, err)
	}

	assert.True(t, tr.Complete())
	assert.Equal(t, 100, finalScore)
}

func TestTraceExitWithoutAttempts(t *testing.T) {
	var completions, finalScore int
	tr := NewTrace(1000, 700, func(score int) {
		completions++
		finalScore = score
	})

	tr.Exit()
	tr.Exit()

	assert.True(t, tr.Complete())
	assert.Equal(t, 1, completions)
	assert.Equal(t, 0, finalScore)
}

func TestTraceStateAdvancesThroughSequence(t *testing.T) {
	tr := NewTrace(1000, 700, nil)

	data := tr.State().Data.(TraceData)
	assert.Equal(t, "A", data.Letter)
	assert.Equal(t, len(traceLetters)-1, data.Remaining)
	assert.NotEmpty(t, data.Reference)

	_, err := tr.NextLetter(nil)
	require.NoError(t, err)

	data = tr.State().Data.(TraceData)
	assert.Equal(t, "B", data.Letter)
	assert.Equal(t, len(traceLetters)-2, data.Remaining)
}
