package realtime

import "sync"

// Snapshot is one full-state delivery for a topic. Subscribers must treat
// every delivery as authoritative and total, never as a diff.
type Snapshot struct {
	Topic string
	Data  interface{}
}

// Hub fans full snapshots out to topic subscribers. Each subscriber holds a
// buffer of one: when a subscriber is slow, the stale snapshot is replaced
// by the newer one, so deliveries may coalesce but never interleave diffs.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Snapshot
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Snapshot)}
}

// Subscribe registers for a topic and returns the delivery channel plus a
// cancel function. Cancel is the only cancellation primitive; it is safe to
// call more than once.
func (h *Hub) Subscribe(topic string) (<-chan Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	h.nextID++
	id := h.nextID
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]chan Snapshot)
	}
	h.subs[topic][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[topic]; ok {
				if c, ok := set[id]; ok {
					delete(set, id)
					close(c)
				}
				if len(set) == 0 {
					delete(h.subs, topic)
				}
			}
		})
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber of the topic. A pending
// undelivered snapshot is dropped in favor of the new one.
func (h *Hub) Publish(topic string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs[topic] {
		select {
		case ch <- Snapshot{Topic: topic, Data: data}:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- Snapshot{Topic: topic, Data: data}
		}
	}
}

// SubscriberCount reports the current number of subscribers for a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}

// Close shuts the hub down and closes every subscriber channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for topic, set := range h.subs {
		for _, ch := range set {
			close(ch)
		}
		delete(h.subs, topic)
	}
}
