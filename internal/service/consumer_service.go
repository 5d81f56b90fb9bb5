package service

import (
	"context"
	"encoding/json"

	"ecom-support-widget/internal/dto"
	"ecom-support-widget/internal/entity"
	"ecom-support-widget/internal/pkg/logger"
	"ecom-support-widget/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	conversationRepo contract.ConversationRepository
	log              logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	conversationRepo contract.ConversationRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		conversationRepo: conversationRepo,
		log:              log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishTranscriptTurnMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal transcript message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads never become valid, do not retry
		return
	}

	human := &entity.ConversationMessage{
		Id:             uuid.New(),
		SessionId:      payload.SessionId,
		MessageType:    entity.MessageTypeHuman,
		MessageContent: payload.UserMessage,
		CreatedAt:      payload.Timestamp,
	}
	if err := cs.conversationRepo.Create(ctx, human); err != nil {
		cs.log.Error("consumer", "failed to persist human turn", map[string]interface{}{
			"session_id": payload.SessionId.String(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	ai := &entity.ConversationMessage{
		Id:               uuid.New(),
		SessionId:        payload.SessionId,
		MessageType:      entity.MessageTypeAI,
		MessageContent:   payload.BotAnswer,
		ResponseMetadata: payload.RawResponse,
		CreatedAt:        payload.Timestamp,
	}
	if err := cs.conversationRepo.Create(ctx, ai); err != nil {
		cs.log.Error("consumer", "failed to persist ai turn", map[string]interface{}{
			"session_id": payload.SessionId.String(),
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
