package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ecom-support-widget/internal/dto"
	"ecom-support-widget/internal/pkg/logger"
	"ecom-support-widget/pkg/botapi"
	"ecom-support-widget/pkg/payload"
	"ecom-support-widget/pkg/render"
	"ecom-support-widget/pkg/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger satisfies logger.ILogger for tests without touching the filesystem.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(string) (*logger.LogEntry, error) { return nil, nil }

// capturingPublisher records published transcript payloads.
type capturingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturingPublisher) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.payloads...)
}

func fastRetryPolicy() botapi.RetryPolicy {
	p := botapi.DefaultRetryPolicy()
	p.Delays = []time.Duration{time.Millisecond, time.Millisecond}
	return p
}

func newTestChatService(t *testing.T, botURL string) (IChatService, session.Store, *capturingPublisher) {
	t.Helper()
	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	store := session.NewMemoryStore()
	publisher := &capturingPublisher{}
	svc := NewChatService(
		botapi.NewClient(botURL, "", time.Second, fastRetryPolicy()),
		payload.NewNormalizer(),
		renderer,
		store,
		publisher,
		nopLogger{},
	)
	return svc, store, publisher
}

func TestChatServiceSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{"answer":"We have 3 TVs"}}`))
	}))
	defer srv.Close()

	svc, store, publisher := newTestChatService(t, srv.URL)

	sessionID := uuid.New().String()
	res, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		ClientID:  "client-1",
		SessionID: sessionID,
		Message:   "show me tvs",
	})
	require.NoError(t, err)

	assert.Equal(t, sessionID, res.SessionID)
	assert.Contains(t, res.UserHTML, "show me tvs")
	require.Len(t, res.Fragments, 1)
	assert.Contains(t, res.Fragments[0].HTML, "We have 3 TVs")
	assert.False(t, res.Fragments[0].Transient)

	// The exchange is persisted under the client id.
	state, source, err := store.Load(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, session.RestoredSnapshot, source)
	assert.Equal(t, sessionID, state.ID)
	assert.Contains(t, state.ContentHTML, "show me tvs")
	assert.Contains(t, state.ContentHTML, "We have 3 TVs")
	require.Len(t, state.Messages, 2)
	assert.True(t, state.Messages[0].IsUser)
	assert.Equal(t, "We have 3 TVs", state.Messages[1].Content)

	// One transcript turn published.
	published := publisher.published()
	require.Len(t, published, 1)
	var turn dto.PublishTranscriptTurnMessage
	require.NoError(t, json.Unmarshal(published[0], &turn))
	assert.Equal(t, sessionID, turn.SessionId.String())
	assert.Equal(t, "show me tvs", turn.UserMessage)
	assert.Equal(t, "We have 3 TVs", turn.BotAnswer)
}

func TestChatServiceRetryNotice(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"answer":"Recovered answer"}`))
	}))
	defer srv.Close()

	svc, store, _ := newTestChatService(t, srv.URL)

	res, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		ClientID:  "client-2",
		SessionID: uuid.New().String(),
		Message:   "hi",
	})
	require.NoError(t, err)

	require.Len(t, res.Fragments, 2)
	assert.True(t, res.Fragments[0].Transient)
	assert.Contains(t, res.Fragments[0].HTML, "Connection restored")
	assert.Contains(t, res.Fragments[1].HTML, "Recovered answer")

	// Transient notices are display-only, never persisted.
	state, _, err := store.Load(context.Background(), "client-2")
	require.NoError(t, err)
	assert.NotContains(t, state.ContentHTML, "Connection restored")
	assert.Contains(t, state.ContentHTML, "Recovered answer")
}

func TestChatServiceBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc, _, _ := newTestChatService(t, srv.URL)

	res, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		ClientID:  "client-3",
		SessionID: uuid.New().String(),
		Message:   "hi",
	})
	require.NoError(t, err, "backend failure becomes a chat message, not an API error")
	require.Len(t, res.Fragments, 1)
	assert.Contains(t, res.Fragments[0].HTML, "high traffic")
}

func TestChatServiceNewChatAndRestore(t *testing.T) {
	svc, _, _ := newTestChatService(t, "http://unused.invalid")

	created, err := svc.NewChat(context.Background(), &dto.NewChatRequest{ClientID: "client-4"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.SessionID)
	assert.Contains(t, created.WelcomeHTML, "shopping assistant")

	restored, err := svc.RestoreSession(context.Background(), "client-4")
	require.NoError(t, err)
	assert.Equal(t, "snapshot", restored.Restored)
	assert.Equal(t, created.SessionID, restored.SessionID)
	assert.True(t, restored.ReattachHandlers)
	assert.Contains(t, restored.ContentHTML, "shopping assistant")
}

func TestChatServiceRestoreLegacy(t *testing.T) {
	svc, store, _ := newTestChatService(t, "http://unused.invalid")

	// Older widget builds stored only the structured log.
	require.NoError(t, store.Save(context.Background(), "client-5", &session.State{
		ID: "legacy-session",
		Messages: []session.Message{
			{Content: "old question", IsUser: true, Time: "09:15 AM"},
			{Content: "old answer", IsUser: false, Time: "09:15 AM"},
		},
	}))

	restored, err := svc.RestoreSession(context.Background(), "client-5")
	require.NoError(t, err)
	assert.Equal(t, "legacy", restored.Restored)
	assert.False(t, restored.ReattachHandlers)
	assert.Contains(t, restored.ContentHTML, "old question")
	assert.Contains(t, restored.ContentHTML, "old answer")
	assert.Contains(t, restored.ContentHTML, `class="message user"`)
	assert.Contains(t, restored.ContentHTML, `class="message bot"`)
}

func TestChatServiceRestoreEmpty(t *testing.T) {
	svc, _, _ := newTestChatService(t, "http://unused.invalid")

	restored, err := svc.RestoreSession(context.Background(), "fresh-client")
	require.NoError(t, err)
	assert.Equal(t, "none", restored.Restored)
	assert.Empty(t, restored.SessionID)
}

func TestChatServiceEndChat(t *testing.T) {
	svc, _, _ := newTestChatService(t, "http://unused.invalid")

	created, err := svc.NewChat(context.Background(), &dto.NewChatRequest{ClientID: "client-6"})
	require.NoError(t, err)
	require.NotEmpty(t, created.SessionID)

	require.NoError(t, svc.EndChat(context.Background(), &dto.CloseChatRequest{ClientID: "client-6"}))

	restored, err := svc.RestoreSession(context.Background(), "client-6")
	require.NoError(t, err)
	assert.Equal(t, "none", restored.Restored)
}
