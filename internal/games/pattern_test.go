package games

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternMatchScoresAndRollsNewTarget(t *testing.T) {
	var finalScore int
	p := NewPattern(rand.New(rand.NewSource(1)), func(score int) { finalScore = score })

	target := p.State().Data.(PatternData).Target
	require.Len(t, target, patternLength)

	for i, symbol := range target {
		outcome, err := p.Input(symbol)
		require.NoError(t, err)
		if i < patternLength-1 {
			assert.Equal(t, PatternPending, outcome)
		} else {
			assert.Equal(t, PatternMatched, outcome)
		}
	}

	data := p.State().Data.(PatternData)
	assert.Equal(t, 1, p.State().Score)
	assert.Empty(t, data.Buffer)

	p.Finish()
	assert.Equal(t, 1, finalScore)
}

func TestPatternMissClearsBufferWithoutPenalty(t *testing.T) {
	p := NewPattern(rand.New(rand.NewSource(1)), nil)

	target := p.State().Data.(PatternData).Target
	wrong := patternSymbols[0]
	if wrong == target[0] {
		wrong = patternSymbols[1]
	}

	outcome, err := p.Input(wrong)
	require.NoError(t, err)
	assert.Equal(t, PatternPending, outcome)
	for i := 1; i < patternLength-1; i++ {
		_, err := p.Input(target[i])
		require.NoError(t, err)
	}
	outcome, err = p.Input(target[patternLength-1])
	require.NoError(t, err)
	assert.Equal(t, PatternMissed, outcome)

	data := p.State().Data.(PatternData)
	assert.Equal(t, 0, p.State().Score)
	assert.Empty(t, data.Buffer)
	// The target survives a miss.
	assert.Equal(t, target, data.Target)
}

func TestPatternRejectsUnknownSymbol(t *testing.T) {
	p := NewPattern(rand.New(rand.NewSource(1)), nil)

	_, err := p.Input("🍕")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, p.State().Data.(PatternData).Buffer)
}

func TestPatternFinishFiresOnce(t *testing.T) {
	var completions int
	p := NewPattern(rand.New(rand.NewSource(1)), func(int) { completions++ })

	p.Finish()
	p.Finish()
	assert.Equal(t, 1, completions)

	_, err := p.Input(patternSymbols[0])
	assert.ErrorIs(t, err, ErrFinished)
}
