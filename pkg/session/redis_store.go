package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists widget state in Redis, scoped per widget client. No
// expiry is managed here; last write wins when multiple tabs share a client.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) key(clientID, suffix string) string {
	return fmt.Sprintf("widget:%s:%s", clientID, suffix)
}

func (s *RedisStore) Save(ctx context.Context, clientID string, state *State) error {
	history, err := json.Marshal(state.Messages)
	if err != nil {
		return fmt.Errorf("marshal message log: %w", err)
	}

	// All three keys go in one round trip so a partial write can't leave a
	// snapshot without its session identifier.
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.key(clientID, keyContent), state.ContentHTML, 0)
	pipe.Set(ctx, s.key(clientID, keyHistory), history, 0)
	pipe.Set(ctx, s.key(clientID, keySession), state.ID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("persist widget state: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, clientID string) (*State, RestoreSource, error) {
	sessionID, err := s.get(ctx, s.key(clientID, keySession))
	if err != nil {
		return nil, RestoredNone, err
	}
	if sessionID == "" {
		return nil, RestoredNone, nil
	}

	content, err := s.get(ctx, s.key(clientID, keyContent))
	if err != nil {
		return nil, RestoredNone, err
	}
	history, err := s.get(ctx, s.key(clientID, keyHistory))
	if err != nil {
		return nil, RestoredNone, err
	}

	var messages []Message
	if history != "" {
		// A corrupt log only disables the legacy path, not the snapshot.
		_ = json.Unmarshal([]byte(history), &messages)
	}

	if content != "" {
		return &State{ID: sessionID, ContentHTML: content, Messages: messages}, RestoredSnapshot, nil
	}
	if len(messages) > 0 {
		return &State{ID: sessionID, Messages: messages}, RestoredLegacy, nil
	}
	return nil, RestoredNone, nil
}

func (s *RedisStore) Clear(ctx context.Context, clientID string) error {
	return s.rdb.Del(ctx,
		s.key(clientID, keyContent),
		s.key(clientID, keyHistory),
		s.key(clientID, keySession),
	).Err()
}

func (s *RedisStore) get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
