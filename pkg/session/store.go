// Package session persists and restores widget conversation state across
// page reloads. State is written under versioned keys: a current-format key
// holding the rendered HTML snapshot, a legacy key holding the structured
// message log, and the session-identifier key. All three are written
// together on every state-changing render; reads prefer the snapshot and
// fall back to the legacy log.
package session

import "context"

// Key suffixes. The legacy history key predates the full-content snapshot
// and is kept readable for stored sessions written by older widget builds.
const (
	keyContent = "chat-content"
	keyHistory = "chat-history"
	keySession = "chat-session"
)

// Message is one entry of the legacy structured log.
type Message struct {
	Content string `json:"content"`
	IsUser  bool   `json:"isUser"`
	Time    string `json:"time"`
}

// State is the full persisted conversation: the session identifier shared
// with the bot backend, the rendered HTML snapshot, and the message log.
type State struct {
	ID          string
	ContentHTML string
	Messages    []Message
}

// RestoreSource tells the caller which format a load was served from, so the
// widget knows whether interactive handlers must be reattached to restored
// markup (serialized HTML carries no event bindings) or bubbles were rebuilt.
type RestoreSource int

const (
	RestoredNone RestoreSource = iota
	RestoredSnapshot
	RestoredLegacy
)

// Store is the durable key-value persistence contract. Load returning
// (nil, RestoredNone, nil) means nothing to restore; the caller shows a
// fresh landing state. Implementations must restore the exact session
// identifier, never generate a new one.
type Store interface {
	Save(ctx context.Context, clientID string, state *State) error
	Load(ctx context.Context, clientID string) (*State, RestoreSource, error)
	Clear(ctx context.Context, clientID string) error
}
