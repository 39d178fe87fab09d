package games

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

var ErrMemorizing = errors.New("countdown still running")

const (
	focusCountdown = 5 * time.Second
	focusNumberMax = 100
)

// Focus is the number-recall trainer: a number is shown for five
// seconds, then the player reproduces it from memory. Every guess rolls
// a fresh number and restarts the countdown.
type Focus struct {
	mu       sync.Mutex
	rng      *rand.Rand
	number   int
	shownAt  time.Time
	now      func() time.Time
	trials   int
	correct  int
	done     bool
	complete completion
}

// FocusData exposes the number only while it may still be memorized.
type FocusData struct {
	Number      int     `json:"number,omitempty"`
	SecondsLeft float64 `json:"secondsLeft"`
	Trials      int     `json:"trials"`
	Correct     int     `json:"correct"`
}

func NewFocus(rng *rand.Rand, onComplete CompleteFunc) *Focus {
	f := &Focus{rng: rng, now: time.Now, complete: completion{fn: onComplete}}
	f.number = f.rng.Intn(focusNumberMax)
	f.shownAt = f.now()
	return f
}

func (f *Focus) ID() string { return "focus" }

func (f *Focus) Complete() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

func (f *Focus) remaining() time.Duration {
	left := focusCountdown - f.now().Sub(f.shownAt)
	if left < 0 {
		return 0
	}
	return left
}

// Guess checks a recalled number once the countdown has elapsed.
func (f *Focus) Guess(n int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		return false, ErrFinished
	}
	if f.remaining() > 0 {
		return false, ErrMemorizing
	}

	correct := n == f.number
	f.trials++
	if correct {
		f.correct++
	}
	f.number = f.rng.Intn(focusNumberMax)
	f.shownAt = f.now()
	return correct, nil
}

// Finish ends the session; the score is the number of correct recalls.
func (f *Focus) Finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.done {
		f.done = true
		f.complete.fire(f.correct)
	}
}

func (f *Focus) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	left := f.remaining()
	data := FocusData{
		SecondsLeft: left.Seconds(),
		Trials:      f.trials,
		Correct:     f.correct,
	}
	if left > 0 {
		data.Number = f.number
	}
	return State{Game: "focus", Done: f.done, Score: f.correct, Data: data}
}
