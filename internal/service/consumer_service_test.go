package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ecom-support-widget/internal/dto"
	"ecom-support-widget/internal/entity"
	"ecom-support-widget/internal/repository/contract"
	"ecom-support-widget/internal/repository/specification"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingConversationRepo captures created rows in memory.
type recordingConversationRepo struct {
	mu      sync.Mutex
	created []entity.ConversationMessage
}

func (r *recordingConversationRepo) Create(_ context.Context, m *entity.ConversationMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, *m)
	return nil
}

func (r *recordingConversationRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.ConversationMessage, error) {
	return nil, nil
}

func (r *recordingConversationRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.created)), nil
}

func (r *recordingConversationRepo) CountDistinctSessions(context.Context) (int64, error) {
	return 0, nil
}

func (r *recordingConversationRepo) CountPerDay(context.Context, time.Time) ([]contract.DailyCount, error) {
	return nil, nil
}

func (r *recordingConversationRepo) rows() []entity.ConversationMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.ConversationMessage(nil), r.created...)
}

func TestTranscriptPipeline(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := &recordingConversationRepo{}

	const topic = "conversation.turns"
	consumer := NewConsumerService(pubSub, topic, repo, nopLogger{})
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(pubSub, topic)

	sessionId := uuid.New()
	turn := dto.PublishTranscriptTurnMessage{
		SessionId:   sessionId,
		UserMessage: "do you sell laptops",
		BotAnswer:   "Yes, here are our laptops",
		RawResponse: json.RawMessage(`{"status":"success"}`),
		Timestamp:   time.Now().UTC(),
	}
	payloadJSON, err := json.Marshal(turn)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payloadJSON))

	require.Eventually(t, func() bool {
		return len(repo.rows()) == 2
	}, 2*time.Second, 10*time.Millisecond, "expected both turns persisted")

	rows := repo.rows()
	assert.Equal(t, entity.MessageTypeHuman, rows[0].MessageType)
	assert.Equal(t, "do you sell laptops", rows[0].MessageContent)
	assert.Equal(t, sessionId, rows[0].SessionId)
	assert.Empty(t, rows[0].ResponseMetadata)

	assert.Equal(t, entity.MessageTypeAI, rows[1].MessageType)
	assert.Equal(t, "Yes, here are our laptops", rows[1].MessageContent)
	assert.JSONEq(t, `{"status":"success"}`, string(rows[1].ResponseMetadata))
}

func TestConsumerSkipsMalformedPayloads(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := &recordingConversationRepo{}

	const topic = "conversation.turns"
	consumer := NewConsumerService(pubSub, topic, repo, nopLogger{})
	require.NoError(t, consumer.Consume(context.Background()))

	publisher := NewPublisherService(pubSub, topic)
	require.NoError(t, publisher.Publish(context.Background(), []byte("not json")))

	good := dto.PublishTranscriptTurnMessage{
		SessionId:   uuid.New(),
		UserMessage: "hello",
		BotAnswer:   "hi",
		Timestamp:   time.Now().UTC(),
	}
	payloadJSON, err := json.Marshal(good)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payloadJSON))

	// The malformed message is acked and dropped; the good one lands.
	require.Eventually(t, func() bool {
		return len(repo.rows()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "hello", repo.rows()[0].MessageContent)
}
