package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps widget state in process memory. It backs tests and
// serves as the degraded mode when Redis is unreachable: chat still works,
// restoration just doesn't survive a process restart.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	// Sessions idle for a day are purged; active widgets re-save on every
	// render so live conversations never expire mid-session.
	return &MemoryStore{cache: cache.New(24*time.Hour, 10*time.Minute)}
}

func (s *MemoryStore) Save(_ context.Context, clientID string, state *State) error {
	history, err := json.Marshal(state.Messages)
	if err != nil {
		return err
	}
	s.cache.Set(clientID+":"+keyContent, state.ContentHTML, cache.DefaultExpiration)
	s.cache.Set(clientID+":"+keyHistory, string(history), cache.DefaultExpiration)
	s.cache.Set(clientID+":"+keySession, state.ID, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, clientID string) (*State, RestoreSource, error) {
	sessionID := s.get(clientID + ":" + keySession)
	if sessionID == "" {
		return nil, RestoredNone, nil
	}

	var messages []Message
	if history := s.get(clientID + ":" + keyHistory); history != "" {
		_ = json.Unmarshal([]byte(history), &messages)
	}

	if content := s.get(clientID + ":" + keyContent); content != "" {
		return &State{ID: sessionID, ContentHTML: content, Messages: messages}, RestoredSnapshot, nil
	}
	if len(messages) > 0 {
		return &State{ID: sessionID, Messages: messages}, RestoredLegacy, nil
	}
	return nil, RestoredNone, nil
}

func (s *MemoryStore) Clear(_ context.Context, clientID string) error {
	s.cache.Delete(clientID + ":" + keyContent)
	s.cache.Delete(clientID + ":" + keyHistory)
	s.cache.Delete(clientID + ":" + keySession)
	return nil
}

func (s *MemoryStore) get(key string) string {
	if v, found := s.cache.Get(key); found {
		return v.(string)
	}
	return ""
}
