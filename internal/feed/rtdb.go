package feed

import (
	"context"
	"encoding/json"

	"firebase.google.com/go/v4/db"
)

// RTDB adapts the Firebase Realtime Database client to the Tree boundary.
type RTDB struct {
	client *db.Client
}

func NewRTDB(client *db.Client) *RTDB {
	return &RTDB{client: client}
}

func (r *RTDB) Get(ctx context.Context, path string, v interface{}) error {
	return r.client.NewRef(path).Get(ctx, v)
}

func (r *RTDB) Set(ctx context.Context, path string, v interface{}) error {
	return r.client.NewRef(path).Set(ctx, v)
}

func (r *RTDB) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	return r.client.NewRef(path).Update(ctx, fields)
}

func (r *RTDB) Push(ctx context.Context, path string, v interface{}) (string, error) {
	ref, err := r.client.NewRef(path).Push(ctx, v)
	if err != nil {
		return "", err
	}
	return ref.Key, nil
}

// Transact runs fn inside an RTDB transaction, giving the atomic
// set-toggle / counter primitive that keyed read-modify-write lacks.
func (r *RTDB) Transact(ctx context.Context, path string, fn TxnFunc) error {
	return r.client.NewRef(path).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		return fn(node.Unmarshal)
	})
}

func (r *RTDB) OrderedLimit(ctx context.Context, path, child string, limit int) ([]Node, error) {
	results, err := r.client.NewRef(path).OrderByChild(child).LimitToLast(limit).GetOrdered(ctx)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(results))
	for _, qn := range results {
		var raw json.RawMessage
		if err := qn.Unmarshal(&raw); err != nil {
			return nil, err
		}
		nodes = append(nodes, Node{Key: qn.Key(), Data: raw})
	}
	return nodes, nil
}
