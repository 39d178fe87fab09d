package games

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrRevealing      = errors.New("cards are still revealed")
	ErrCardOutOfRange = errors.New("card index out of range")
	ErrCardUnplayable = errors.New("card is already face up")
)

// The deck is six pairs, shown face up for two seconds before play.
var memorySymbols = []string{"🌟", "🎨", "🎭", "🎪", "🎯", "🎲"}

const (
	memoryCardCount  = 12
	memoryRevealTime = 2 * time.Second
	memoryTimeBonus  = 60
)

// Memory is the card-matching game. A flip selects a card; the second
// flip of a pair either locks both cards as matched or turns them back.
// The final score rewards matches and speed:
// matches*10 + max(0, 60 - elapsedSeconds), rounded.
type Memory struct {
	mu       sync.Mutex
	cards    []string
	matched  []bool
	selected int
	matches  int
	started  time.Time
	now      func() time.Time
	done     bool
	score    int
	complete completion
}

// MemoryData is the client-visible board. Faces are only exposed for
// cards the player is entitled to see.
type MemoryData struct {
	Faces     []string `json:"faces"`
	Matched   []bool   `json:"matched"`
	Selected  int      `json:"selected"`
	Matches   int      `json:"matches"`
	Revealing bool     `json:"revealing"`
}

func NewMemory(rng *rand.Rand, onComplete CompleteFunc) *Memory {
	cards := make([]string, 0, memoryCardCount)
	cards = append(cards, memorySymbols...)
	cards = append(cards, memorySymbols...)
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	m := &Memory{
		cards:    cards,
		matched:  make([]bool, memoryCardCount),
		selected: -1,
		now:      time.Now,
		complete: completion{fn: onComplete},
	}
	m.started = m.now()
	return m
}

func (m *Memory) ID() string { return "memory" }

func (m *Memory) Complete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

func (m *Memory) revealing() bool {
	return m.now().Sub(m.started) < memoryRevealTime
}

// Flip plays one card. The first flip of a pair just selects; the second
// resolves the pair. Reports whether the pair matched (false on a
// selecting flip).
func (m *Memory) Flip(index int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return false, ErrFinished
	}
	if m.revealing() {
		return false, ErrRevealing
	}
	if index < 0 || index >= len(m.cards) {
		return false, ErrCardOutOfRange
	}
	if m.matched[index] || index == m.selected {
		return false, ErrCardUnplayable
	}

	if m.selected == -1 {
		m.selected = index
		return false, nil
	}

	matched := m.cards[m.selected] == m.cards[index]
	if matched {
		m.matched[m.selected] = true
		m.matched[index] = true
		m.matches++
	}
	m.selected = -1

	if m.matches == memoryCardCount/2 {
		elapsed := m.now().Sub(m.started).Seconds()
		bonus := math.Max(0, memoryTimeBonus-elapsed)
		m.score = int(math.Round(float64(m.matches*10) + bonus))
		m.done = true
		m.complete.fire(m.score)
	}
	return matched, nil
}

func (m *Memory) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	revealing := !m.done && m.revealing()
	faces := make([]string, len(m.cards))
	for i, card := range m.cards {
		if revealing || m.matched[i] || i == m.selected {
			faces[i] = card
		}
	}
	return State{
		Game:  "memory",
		Done:  m.done,
		Score: m.score,
		Data: MemoryData{
			Faces:     faces,
			Matched:   append([]bool(nil), m.matched...),
			Selected:  m.selected,
			Matches:   m.matches,
			Revealing: revealing,
		},
	}
}
