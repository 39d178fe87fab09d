package games

import (
	"math/rand"
	"sync"
)

// EmotionOption pairs the shown face with its answer label.
type EmotionOption struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

var emotionOptions = []EmotionOption{
	{Emoji: "😊", Label: "Happy"},
	{Emoji: "😢", Label: "Sad"},
	{Emoji: "😡", Label: "Angry"},
	{Emoji: "😨", Label: "Scared"},
}

// Emotion is the face-labelling game: name the shown emotion from four
// choices. A correct pick scores; a wrong pick gives feedback and the
// same face can be retried until the player rolls the next one.
type Emotion struct {
	mu       sync.Mutex
	rng      *rand.Rand
	target   EmotionOption
	score    int
	done     bool
	complete completion
}

type EmotionData struct {
	Emoji   string          `json:"emoji"`
	Options []EmotionOption `json:"options"`
}

func NewEmotion(rng *rand.Rand, onComplete CompleteFunc) *Emotion {
	e := &Emotion{rng: rng, complete: completion{fn: onComplete}}
	e.target = emotionOptions[e.rng.Intn(len(emotionOptions))]
	return e
}

func (e *Emotion) ID() string { return "emotion" }

func (e *Emotion) Complete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Guess labels the current face.
func (e *Emotion) Guess(label string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		return false, ErrFinished
	}
	valid := false
	for _, opt := range emotionOptions {
		if opt.Label == label {
			valid = true
			break
		}
	}
	if !valid {
		return false, ErrInvalidInput
	}

	if label == e.target.Label {
		e.score++
		return true, nil
	}
	return false, nil
}

// Next rolls a fresh face.
func (e *Emotion) Next() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done {
		return
	}
	e.target = emotionOptions[e.rng.Intn(len(emotionOptions))]
}

// Finish ends the session with the running correct count.
func (e *Emotion) Finish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.done {
		e.done = true
		e.complete.fire(e.score)
	}
}

func (e *Emotion) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Game:  "emotion",
		Done:  e.done,
		Score: e.score,
		Data: EmotionData{
			Emoji:   e.target.Emoji,
			Options: emotionOptions,
		},
	}
}
