package realtime

import (
	"fmt"
	"sync"
)

// StreamState tracks the lifecycle of one subscribed stream (feed, presence
// or notifications). Errors are terminal: there is no automatic retry, and
// recovery happens by tearing the stream down and subscribing again.
type StreamState int

const (
	Disconnected StreamState = iota
	Subscribing
	Live
	Failed
)

func (s StreamState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Subscribing:
		return "subscribing"
	case Live:
		return "live"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Stream is the small per-subscription state machine. Valid transitions:
// Disconnected -> Subscribing -> Live -> Live -> ... and any -> Failed.
type Stream struct {
	mu    sync.Mutex
	state StreamState
	err   error
}

func NewStream() *Stream {
	return &Stream{state: Disconnected}
}

func (s *Stream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the transport error that moved the stream to Failed, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// BeginSubscribe moves Disconnected to Subscribing. It reports whether the
// transition was legal.
func (s *Stream) BeginSubscribe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Disconnected {
		return false
	}
	s.state = Subscribing
	return true
}

// Deliver records a snapshot arrival: the first one moves Subscribing to
// Live, later ones keep the stream Live. Deliveries after a failure are
// ignored.
func (s *Stream) Deliver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Subscribing, Live:
		s.state = Live
		return true
	default:
		return false
	}
}

// Fail moves the stream to Failed from any state, keeping the first error.
// Previously delivered data stays valid: stale-but-available.
func (s *Stream) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Failed {
		return
	}
	s.state = Failed
	s.err = err
}
