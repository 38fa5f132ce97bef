package flow

import (
	"context"
	"fmt"

	"github.com/issac-D/uni-market-bot/internal/telegram"
)

// Manager routes a user's turns to their active flow and owns draft
// persistence. A user has at most one active flow at a time; starting a new
// one replaces the old draft.
type Manager struct {
	store SessionStore
	flows map[string]Flow
}

// NewManager creates a manager over the given flows.
func NewManager(store SessionStore, flows ...Flow) *Manager {
	m := &Manager{store: store, flows: map[string]Flow{}}
	for _, f := range flows {
		m.flows[f.Name()] = f
	}
	return m
}

// Start enters the named flow for the user, replacing any draft in progress.
func (m *Manager) Start(ctx context.Context, name string, from Sender) ([]telegram.Outgoing, error) {
	f, ok := m.flows[name]
	if !ok {
		return nil, fmt.Errorf("unknown flow %q", name)
	}

	res, err := f.Enter(ctx, from)
	if err != nil {
		return nil, err
	}
	if res.Done || res.Draft == nil {
		_ = m.store.Delete(ctx, from.ID)
		return res.Replies, nil
	}
	if err := m.store.Put(ctx, from.ID, res.Draft); err != nil {
		return nil, err
	}
	return res.Replies, nil
}

// HandleInput feeds one user turn to the active flow. Returns handled=false
// when the user has no draft, in which case the caller falls back to menu
// routing.
func (m *Manager) HandleInput(ctx context.Context, from Sender, in Input) (bool, []telegram.Outgoing, error) {
	draft, err := m.store.Get(ctx, from.ID)
	if err != nil {
		return false, nil, err
	}
	if draft == nil {
		return false, nil, nil
	}

	f, ok := m.flows[draft.Flow]
	if !ok {
		// Draft from a retired flow; drop it.
		_ = m.store.Delete(ctx, from.ID)
		return false, nil, nil
	}

	res, err := f.Advance(ctx, from, draft, in)
	if err != nil {
		return true, nil, err
	}
	if res.Done || res.Draft == nil {
		if err := m.store.Delete(ctx, from.ID); err != nil {
			return true, res.Replies, err
		}
	} else if err := m.store.Put(ctx, from.ID, res.Draft); err != nil {
		return true, res.Replies, err
	}
	return true, res.Replies, nil
}

// Cancel discards the user's draft, if any.
func (m *Manager) Cancel(ctx context.Context, userID int64) error {
	return m.store.Delete(ctx, userID)
}
