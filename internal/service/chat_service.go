package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"ecom-support-widget/internal/dto"
	"ecom-support-widget/internal/pkg/logger"
	"ecom-support-widget/pkg/botapi"
	"ecom-support-widget/pkg/payload"
	"ecom-support-widget/pkg/render"
	"ecom-support-widget/pkg/session"

	"github.com/google/uuid"
)

const welcomeMessage = "Hello! I'm your shopping assistant. Ask me about products, store locations, or our policies."

type IChatService interface {
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	RestoreSession(ctx context.Context, clientID string) (*dto.RestoreSessionResponse, error)
	NewChat(ctx context.Context, req *dto.NewChatRequest) (*dto.NewChatResponse, error)
	EndChat(ctx context.Context, req *dto.CloseChatRequest) error
}

type chatService struct {
	botClient        *botapi.Client
	normalizer       *payload.Normalizer
	renderer         *render.Renderer
	sessions         session.Store
	publisherService IPublisherService
	log              logger.ILogger
}

func NewChatService(
	botClient *botapi.Client,
	normalizer *payload.Normalizer,
	renderer *render.Renderer,
	sessions session.Store,
	publisherService IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		botClient:        botClient,
		normalizer:       normalizer,
		renderer:         renderer,
		sessions:         sessions,
		publisherService: publisherService,
		log:              log,
	}
}

func (s *chatService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	timestamp := time.Now().Format("03:04 PM")

	userHTML, err := s.renderer.UserBubble(req.Message, timestamp)
	if err != nil {
		return nil, err
	}

	var (
		fragments  []dto.RenderedFragment
		directives []payload.Directive
		rawBody    json.RawMessage
	)

	result, sendErr := s.botClient.SendMessage(ctx, req.SessionID, req.Message)
	if sendErr != nil {
		s.log.Error("chat", "bot backend request failed", map[string]interface{}{
			"session_id": req.SessionID,
			"error":      sendErr.Error(),
		})
		directives = []payload.Directive{payload.TextBubble{Text: botapi.UserMessage(sendErr)}}
	} else {
		rawBody = result.Body
		directives = s.normalizer.Normalize(result.Body, req.Message)
		if result.Attempts > 1 {
			notice, rerr := s.renderer.Render(payload.TextBubble{
				Text:      "Connection restored. Here is your answer:",
				Transient: true,
			}, timestamp)
			if rerr != nil {
				return nil, rerr
			}
			fragments = append(fragments, dto.RenderedFragment{HTML: notice, Transient: true})
		}
	}

	for _, d := range directives {
		frag, rerr := s.renderer.Render(d, timestamp)
		if rerr != nil {
			return nil, rerr
		}
		fragments = append(fragments, dto.RenderedFragment{HTML: frag})
	}

	botAnswer := textOf(directives)

	if err := s.persistTurn(ctx, req, userHTML, fragments, botAnswer, timestamp); err != nil {
		// persistence trouble must not eat the reply; the widget still renders
		s.log.Error("chat", "failed to persist session state", map[string]interface{}{
			"client_id": req.ClientID,
			"error":     err.Error(),
		})
	}

	s.publishTurn(ctx, req, botAnswer, rawBody)

	return &dto.SendMessageResponse{
		SessionID: req.SessionID,
		UserHTML:  userHTML,
		Fragments: fragments,
	}, nil
}

// persistTurn appends the exchange to the stored conversation: snapshot HTML
// gets every durable fragment, the legacy log gets plain text only.
func (s *chatService) persistTurn(ctx context.Context, req *dto.SendMessageRequest, userHTML string, fragments []dto.RenderedFragment, botAnswer, timestamp string) error {
	state, _, err := s.sessions.Load(ctx, req.ClientID)
	if err != nil {
		return err
	}
	if state == nil {
		state = &session.State{}
	}
	state.ID = req.SessionID

	var sb strings.Builder
	sb.WriteString(state.ContentHTML)
	sb.WriteString(userHTML)
	for _, f := range fragments {
		if f.Transient {
			continue
		}
		sb.WriteString(f.HTML)
	}
	state.ContentHTML = sb.String()

	state.Messages = append(state.Messages, session.Message{
		Content: req.Message,
		IsUser:  true,
		Time:    timestamp,
	})
	if botAnswer != "" {
		state.Messages = append(state.Messages, session.Message{
			Content: botAnswer,
			IsUser:  false,
			Time:    timestamp,
		})
	}

	return s.sessions.Save(ctx, req.ClientID, state)
}

func (s *chatService) publishTurn(ctx context.Context, req *dto.SendMessageRequest, botAnswer string, rawBody json.RawMessage) {
	sessionId, err := uuid.Parse(req.SessionID)
	if err != nil {
		return
	}
	msg := dto.PublishTranscriptTurnMessage{
		SessionId:   sessionId,
		UserMessage: req.Message,
		BotAnswer:   botAnswer,
		RawResponse: rawBody,
		Timestamp:   time.Now().UTC(),
	}
	payloadJSON, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payloadJSON); err != nil {
		s.log.Error("chat", "failed to publish transcript turn", map[string]interface{}{
			"session_id": req.SessionID,
			"error":      err.Error(),
		})
	}
}

func (s *chatService) RestoreSession(ctx context.Context, clientID string) (*dto.RestoreSessionResponse, error) {
	state, source, err := s.sessions.Load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if state == nil || source == session.RestoredNone {
		return &dto.RestoreSessionResponse{Restored: "none"}, nil
	}

	if source == session.RestoredSnapshot {
		return &dto.RestoreSessionResponse{
			SessionID:        state.ID,
			ContentHTML:      state.ContentHTML,
			Restored:         "snapshot",
			ReattachHandlers: true,
		}, nil
	}

	// Legacy log: rebuild plain bubbles from the structured entries.
	var sb strings.Builder
	for _, m := range state.Messages {
		var frag string
		var rerr error
		if m.IsUser {
			frag, rerr = s.renderer.UserBubble(m.Content, m.Time)
		} else {
			frag, rerr = s.renderer.BotBubble(m.Content, m.Time)
		}
		if rerr != nil {
			return nil, rerr
		}
		sb.WriteString(frag)
	}

	return &dto.RestoreSessionResponse{
		SessionID:   state.ID,
		ContentHTML: sb.String(),
		Restored:    "legacy",
	}, nil
}

func (s *chatService) NewChat(ctx context.Context, req *dto.NewChatRequest) (*dto.NewChatResponse, error) {
	if err := s.sessions.Clear(ctx, req.ClientID); err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	timestamp := time.Now().Format("03:04 PM")
	welcomeHTML, err := s.renderer.BotBubble(welcomeMessage, timestamp)
	if err != nil {
		return nil, err
	}

	state := &session.State{
		ID:          sessionID,
		ContentHTML: welcomeHTML,
		Messages: []session.Message{
			{Content: welcomeMessage, IsUser: false, Time: timestamp},
		},
	}
	if err := s.sessions.Save(ctx, req.ClientID, state); err != nil {
		return nil, err
	}

	return &dto.NewChatResponse{
		SessionID:   sessionID,
		WelcomeHTML: welcomeHTML,
	}, nil
}

func (s *chatService) EndChat(ctx context.Context, req *dto.CloseChatRequest) error {
	return s.sessions.Clear(ctx, req.ClientID)
}

// textOf joins the durable text bubbles of a directive sequence; card-only
// replies yield an empty string.
func textOf(directives []payload.Directive) string {
	var parts []string
	for _, d := range directives {
		if tb, ok := d.(payload.TextBubble); ok && !tb.Transient {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n")
}
