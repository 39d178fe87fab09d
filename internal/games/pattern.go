package games

import (
	"math/rand"
	"sync"
)

var patternSymbols = []string{"⭐", "🌙", "☀️", "💧", "🌟", "⚡"}

const patternLength = 4

// Pattern outcomes for a full four-symbol entry.
const (
	PatternPending = "pending"
	PatternMatched = "matched"
	PatternMissed  = "missed"
)

// Pattern is the sequence-matching game: reproduce the shown four-symbol
// sequence. A full match scores a point and rolls a new target; a miss
// just clears the entry, there is no penalty.
type Pattern struct {
	mu       sync.Mutex
	rng      *rand.Rand
	target   []string
	buffer   []string
	score    int
	done     bool
	complete completion
}

type PatternData struct {
	Target []string `json:"target"`
	Buffer []string `json:"buffer"`
}

func NewPattern(rng *rand.Rand, onComplete CompleteFunc) *Pattern {
	p := &Pattern{rng: rng, complete: completion{fn: onComplete}}
	p.target = p.roll()
	return p
}

func (p *Pattern) roll() []string {
	target := make([]string, patternLength)
	for i := range target {
		target[i] = patternSymbols[p.rng.Intn(len(patternSymbols))]
	}
	return target
}

func (p *Pattern) ID() string { return "pattern" }

func (p *Pattern) Complete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Input appends one symbol to the entry. The fourth symbol resolves it.
func (p *Pattern) Input(symbol string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return "", ErrFinished
	}
	valid := false
	for _, s := range patternSymbols {
		if s == symbol {
			valid = true
			break
		}
	}
	if !valid {
		return "", ErrInvalidInput
	}

	p.buffer = append(p.buffer, symbol)
	if len(p.buffer) < patternLength {
		return PatternPending, nil
	}

	matched := true
	for i, s := range p.buffer {
		if s != p.target[i] {
			matched = false
			break
		}
	}
	p.buffer = nil
	if matched {
		p.score++
		p.target = p.roll()
		return PatternMatched, nil
	}
	return PatternMissed, nil
}

// Finish ends the open-ended session with the accumulated score.
func (p *Pattern) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.done {
		p.done = true
		p.complete.fire(p.score)
	}
}

func (p *Pattern) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Game:  "pattern",
		Done:  p.done,
		Score: p.score,
		Data: PatternData{
			Target: append([]string(nil), p.target...),
			Buffer: append([]string(nil), p.buffer...),
		},
	}
}
