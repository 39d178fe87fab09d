package feed

import (
	"context"
	"encoding/json"
)

// Node is one child of an ordered query result.
type Node struct {
	Key  string
	Data json.RawMessage
}

// TxnFunc mutates the current value at a path. unmarshal loads the current
// value; the returned value replaces it atomically. The function may run
// more than once under contention and must be side-effect free apart from
// variables it owns.
type TxnFunc func(unmarshal func(interface{}) error) (interface{}, error)

// Tree is the realtime-database boundary: keyed get/set/update, push with a
// fresh generated key, atomic transactions, and ordered bounded queries.
// The production implementation is Firebase RTDB (rtdb.go).
type Tree interface {
	Get(ctx context.Context, path string, v interface{}) error
	Set(ctx context.Context, path string, v interface{}) error
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	Push(ctx context.Context, path string, v interface{}) (string, error)
	Transact(ctx context.Context, path string, fn TxnFunc) error
	OrderedLimit(ctx context.Context, path, child string, limit int) ([]Node, error)
}
