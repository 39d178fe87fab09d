// Package games implements the server-side state machines for the
// mini-games. Engines hold all game state and enforce the rules; the
// HTTP layer only relays inputs and snapshots. Engines never touch
// storage — the final score reaches the leaderboard through the
// completion callback.
package games

import (
	"errors"
	"sync"
)

var (
	ErrFinished     = errors.New("game is already finished")
	ErrInvalidInput = errors.New("invalid game input")
)

// CompleteFunc receives the final score. It fires exactly once per
// engine, no matter how completion is reached.
type CompleteFunc func(score int)

// State is the tagged snapshot serialized back to clients. Data carries
// the per-game payload.
type State struct {
	Game  string      `json:"game"`
	Done  bool        `json:"done"`
	Score int         `json:"score"`
	Data  interface{} `json:"data"`
}

// Engine is the contract shared by all six games.
type Engine interface {
	ID() string
	State() State
	Complete() bool
}

// completion wraps the callback so concurrent finish paths cannot fire
// it twice.
type completion struct {
	once sync.Once
	fn   CompleteFunc
}

func (c *completion) fire(score int) {
	c.once.Do(func() {
		if c.fn != nil {
			c.fn(score)
		}
	})
}
