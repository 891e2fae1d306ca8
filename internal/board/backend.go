package board

import (
	"context"
	"encoding/json"
	"fmt"

	"task-board/internal/model"
)

// Backend is where the board sends its round trips. *client.Client
// satisfies it for a remote server, Local for an in-process store.
type Backend interface {
	Load(ctx context.Context) (model.Document, error)
	Dispatch(ctx context.Context, action model.Action, payload any) (model.Document, error)
}

// Store is the in-process document store.
type Store interface {
	Load(ctx context.Context) (model.Document, error)
	Dispatch(ctx context.Context, action model.Action, payload json.RawMessage) (model.Document, error)
}

// Local adapts a Store to Backend by encoding payloads the same way the
// HTTP client does.
type Local struct {
	store Store
}

func NewLocal(store Store) Local {
	return Local{store: store}
}

func (l Local) Load(ctx context.Context) (model.Document, error) {
	return l.store.Load(ctx)
}

func (l Local) Dispatch(ctx context.Context, action model.Action, payload any) (model.Document, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return model.Document{}, fmt.Errorf("encode payload: %w", err)
	}
	return l.store.Dispatch(ctx, action, raw)
}
