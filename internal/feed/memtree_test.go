package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// memTree is an in-memory Tree used by the package tests. Paths address a
// nested map the same way realtime-database paths do, and Transact holds
// the tree lock for the whole mutation, so it has the same atomicity the
// production transactions provide.
type memTree struct {
	mu     sync.Mutex
	root   map[string]interface{}
	nextID int
}

func newMemTree() *memTree {
	return &memTree{root: map[string]interface{}{}}
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func (t *memTree) lookup(path string) interface{} {
	var cur interface{} = t.root
	for _, seg := range splitPath(path) {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = m[seg]
	}
	return cur
}

func (t *memTree) write(path string, v interface{}) {
	segs := splitPath(path)
	cur := t.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
}

// toGeneric round-trips v through JSON so stored values look exactly like
// what the wire codec would produce.
func toGeneric(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *memTree) Get(ctx context.Context, path string, v interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	raw, err := json.Marshal(t.lookup(path))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (t *memTree) Set(ctx context.Context, path string, v interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, err := toGeneric(v)
	if err != nil {
		return err
	}
	t.write(path, g)
	return nil
}

func (t *memTree) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.lookup(path).(map[string]interface{})
	if !ok {
		node = map[string]interface{}{}
	}
	for k, v := range fields {
		g, err := toGeneric(v)
		if err != nil {
			return err
		}
		node[k] = g
	}
	t.write(path, node)
	return nil
}

func (t *memTree) Push(ctx context.Context, path string, v interface{}) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	key := fmt.Sprintf("-key%04d", t.nextID)
	g, err := toGeneric(v)
	if err != nil {
		return "", err
	}
	t.write(path+"/"+key, g)
	return key, nil
}

func (t *memTree) Transact(ctx context.Context, path string, fn TxnFunc) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	raw, err := json.Marshal(t.lookup(path))
	if err != nil {
		return err
	}
	next, err := fn(func(v interface{}) error { return json.Unmarshal(raw, v) })
	if err != nil {
		return err
	}
	g, err := toGeneric(next)
	if err != nil {
		return err
	}
	t.write(path, g)
	return nil
}

func (t *memTree) OrderedLimit(ctx context.Context, path, child string, limit int) ([]Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	children, ok := t.lookup(path).(map[string]interface{})
	if !ok {
		return nil, nil
	}

	type entry struct {
		key  string
		ord  float64
		data json.RawMessage
	}
	entries := make([]entry, 0, len(children))
	for key, v := range children {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		e := entry{key: key, data: raw}
		if m, ok := v.(map[string]interface{}); ok {
			if f, ok := m[child].(float64); ok {
				e.ord = f
			}
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ord < entries[j].ord })
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	nodes := make([]Node, 0, len(entries))
	for _, e := range entries {
		nodes = append(nodes, Node{Key: e.key, Data: e.data})
	}
	return nodes, nil
}
