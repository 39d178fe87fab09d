package games

import (
	"math"
	"sync"
)

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var traceLetters = []string{"A", "B", "C", "D", "E", "a", "b", "c", "d", "e"}

// Reference paths are designed on a 600x600 base grid and scaled into
// the session's canvas at construction.
var traceReference = map[string][]Point{
	"A": {
		{200, 500}, {250, 500}, {300, 300}, {350, 100},
		{450, 100}, {500, 300}, {550, 500}, {600, 500},
		{300, 300}, {500, 300},
	},
	"B": {
		{200, 500}, {200, 100},
		{200, 100}, {350, 100}, {350, 200}, {200, 200},
		{200, 200}, {380, 200}, {380, 400}, {200, 400},
		{200, 400}, {200, 500},
	},
	"C": {
		{500, 100}, {350, 100}, {250, 200}, {250, 400}, {350, 500}, {500, 500},
	},
	"D": {
		{200, 500}, {200, 100},
		{200, 100}, {400, 100}, {500, 200}, {500, 400}, {400, 500}, {200, 500},
	},
	"E": {
		{200, 500}, {200, 100},
		{200, 100}, {450, 100},
		{200, 300}, {380, 300},
		{200, 500}, {450, 500},
	},
	"a": {
		{350, 400}, {300, 350}, {350, 300}, {400, 350}, {350, 400},
		{400, 350}, {450, 300},
	},
	"b": {
		{280, 500}, {280, 300},
		{280, 300}, {330, 300}, {380, 350}, {330, 400}, {280, 400},
	},
	"c": {
		{420, 300}, {350, 300}, {300, 350}, {350, 400}, {420, 400},
	},
	"d": {
		{420, 500}, {420, 300},
		{420, 300}, {370, 300}, {320, 350}, {370, 400}, {420, 400},
	},
	"e": {
		{420, 400}, {320, 400}, {320, 350}, {420, 350}, {420, 400},
		{320, 375}, {420, 375},
	},
}

const traceBaseSize = 600

// traceAttempt is one letter's recorded trace.
type traceAttempt struct {
	Letter   string  `json:"letter"`
	Accuracy float64 `json:"accuracy"`
}

// Trace is the letter-tracing game. The player draws each letter in a
// fixed sequence; per-letter accuracy comes from the mean distance of
// the drawn points to the nearest reference point, and the final score
// is the rounded mean of all recorded accuracies.
type Trace struct {
	mu       sync.Mutex
	width    float64
	height   float64
	idx      int
	attempts []traceAttempt
	done     bool
	score    int
	complete completion
}

// TraceData is the client snapshot: the current letter, its scaled
// reference path and progress so far.
type TraceData struct {
	Letter    string         `json:"letter"`
	Reference []Point        `json:"reference"`
	Attempts  []traceAttempt `json:"attempts"`
	Remaining int            `json:"remaining"`
}

func NewTrace(width, height float64, onComplete CompleteFunc) *Trace {
	if width <= 0 {
		width = 1000
	}
	if height <= 0 {
		height = 700
	}
	return &Trace{width: width, height: height, complete: completion{fn: onComplete}}
}

func (t *Trace) ID() string { return "trace" }

func (t *Trace) Complete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// scalePoint maps a base-grid point into canvas space: letters take at
// most 40% of the canvas height, are centered horizontally and sit below
// a fixed top padding.
func (t *Trace) scalePoint(p Point) Point {
	scaleX := t.width / traceBaseSize
	letterScale := math.Min(scaleX*0.7, t.height*0.4/traceBaseSize)
	offsetX := (t.width - traceBaseSize*letterScale) / 2
	const topPadding = 40.0
	return Point{
		X: p.X*letterScale + offsetX,
		Y: p.Y*letterScale + topPadding,
	}
}

func (t *Trace) scaledReference(letter string) []Point {
	base := traceReference[letter]
	scaled := make([]Point, len(base))
	for i, p := range base {
		scaled[i] = t.scalePoint(p)
	}
	return scaled
}

// accuracy scores a drawn path against the current letter. An empty
// trace scores zero; a trace that lands exactly on the reference points
// scores 100. Rounded to one decimal.
func (t *Trace) accuracy(trace []Point, letter string) float64 {
	if len(trace) == 0 {
		return 0
	}
	ref := t.scaledReference(letter)
	var total float64
	for _, p := range trace {
		min := math.Inf(1)
		for _, r := range ref {
			d := math.Hypot(p.X-r.X, p.Y-r.Y)
			if d < min {
				min = d
			}
		}
		total += min
	}
	mean := total / float64(len(trace))
	acc := math.Max(0, 100-mean/5)
	return math.Round(acc*10) / 10
}

// Accuracy scores a path against the current letter without advancing.
func (t *Trace) Accuracy(trace []Point) (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return 0, ErrFinished
	}
	return t.accuracy(trace, traceLetters[t.idx]), nil
}

// NextLetter records the drawn path for the current letter and advances.
// A blank path is skipped, not scored. Finishing the last letter
// completes the game with the rounded mean accuracy.
func (t *Trace) NextLetter(trace []Point) (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return 0, ErrFinished
	}

	var acc float64
	if len(trace) > 0 {
		acc = t.accuracy(trace, traceLetters[t.idx])
		t.attempts = append(t.attempts, traceAttempt{Letter: traceLetters[t.idx], Accuracy: acc})
	}

	if t.idx >= len(traceLetters)-1 {
		t.finishLocked()
	} else {
		t.idx++
	}
	return acc, nil
}

// Exit ends the session early, scoring whatever was recorded.
func (t *Trace) Exit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.done {
		t.finishLocked()
	}
}

func (t *Trace) finishLocked() {
	var mean float64
	if len(t.attempts) > 0 {
		var sum float64
		for _, a := range t.attempts {
			sum += a.Accuracy
		}
		mean = sum / float64(len(t.attempts))
	}
	t.score = int(math.Round(mean))
	t.done = true
	t.complete.fire(t.score)
}

func (t *Trace) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	letter := traceLetters[t.idx]
	return State{
		Game:  "trace",
		Done:  t.done,
		Score: t.score,
		Data: TraceData{
			Letter:    letter,
			Reference: t.scaledReference(letter),
			Attempts:  append([]traceAttempt(nil), t.attempts...),
			Remaining: len(traceLetters) - t.idx - 1,
		},
	}
}
