package mapper

import (
	"encoding/json"

	"ecom-support-widget/internal/entity"
	"ecom-support-widget/internal/model"

	"gorm.io/datatypes"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(msg *model.ConversationMessage) *entity.ConversationMessage {
	if msg == nil {
		return nil
	}

	var metadata json.RawMessage
	if len(msg.ResponseMetadata) > 0 {
		metadata = json.RawMessage(msg.ResponseMetadata)
	}

	return &entity.ConversationMessage{
		Id:               msg.Id,
		SessionId:        msg.SessionId,
		MessageType:      msg.MessageType,
		MessageContent:   msg.MessageContent,
		ResponseMetadata: metadata,
		CreatedAt:        msg.CreatedAt,
	}
}

func (m *ConversationMapper) ToModel(msg *entity.ConversationMessage) *model.ConversationMessage {
	if msg == nil {
		return nil
	}

	var metadata datatypes.JSON
	if len(msg.ResponseMetadata) > 0 {
		metadata = datatypes.JSON(msg.ResponseMetadata)
	}

	return &model.ConversationMessage{
		Id:               msg.Id,
		SessionId:        msg.SessionId,
		MessageType:      msg.MessageType,
		MessageContent:   msg.MessageContent,
		ResponseMetadata: metadata,
		CreatedAt:        msg.CreatedAt,
	}
}

func (m *ConversationMapper) ToEntities(msgs []model.ConversationMessage) []entity.ConversationMessage {
	out := make([]entity.ConversationMessage, 0, len(msgs))
	for i := range msgs {
		out = append(out, *m.ToEntity(&msgs[i]))
	}
	return out
}

type AdminUserMapper struct{}

func NewAdminUserMapper() *AdminUserMapper {
	return &AdminUserMapper{}
}

func (m *AdminUserMapper) ToEntity(u *model.AdminUser) *entity.AdminUser {
	if u == nil {
		return nil
	}
	return &entity.AdminUser{
		Id:           u.Id,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}
