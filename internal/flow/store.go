package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campana-api/internal/store"
)

// ErrSessionNotFound the session id is unknown or the session expired.
var ErrSessionNotFound = errors.New("flow: session not found")

// SessionStore keeps in-progress call sessions. Sessions are ephemeral:
// navigating away (Delete) or the TTL running out discards them with no
// cleanup needed.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// KVSessionStore serializes sessions as JSON into a KV store (Redis in
// production, memory in dev/tests) under a common prefix with a TTL.
type KVSessionStore struct {
	kv  store.KV
	ttl time.Duration
}

const sessionKeyPrefix = "flow:session:"

// DefaultSessionTTL is generous: a call takes minutes, not hours.
const DefaultSessionTTL = 2 * time.Hour

func NewKVSessionStore(kv store.KV, ttl time.Duration) *KVSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &KVSessionStore{kv: kv, ttl: ttl}
}

var _ SessionStore = (*KVSessionStore)(nil)

func (st *KVSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := st.kv.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func (st *KVSessionStore) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := st.kv.Set(ctx, sessionKeyPrefix+s.ID, string(raw), st.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (st *KVSessionStore) Delete(ctx context.Context, id string) error {
	return st.kv.Del(ctx, sessionKeyPrefix+id)
}
