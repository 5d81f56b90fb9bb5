package dto

// SendMessageRequest is one user turn from the widget. ClientID scopes the
// persisted conversation state; SessionID is the identifier shared with the
// bot backend for the lifetime of the conversation.
type SendMessageRequest struct {
	ClientID  string `json:"client_id" validate:"required"`
	SessionID string `json:"session_id" validate:"required,uuid4"`
	Message   string `json:"message" validate:"required"`
}

// RenderedFragment is one HTML artifact for the widget to append, in order.
// Transient fragments (retry notices) are displayed but not part of the
// persisted conversation.
type RenderedFragment struct {
	HTML      string `json:"html"`
	Transient bool   `json:"transient,omitempty"`
}

type SendMessageResponse struct {
	SessionID string             `json:"session_id"`
	UserHTML  string             `json:"user_html"`
	Fragments []RenderedFragment `json:"fragments"`
}

// RestoreSessionResponse reports whether a stored conversation exists for
// the client. Restored is "snapshot", "legacy", or "none". When the snapshot
// path was used the widget must reattach carousel handlers, since serialized
// HTML carries no event bindings.
type RestoreSessionResponse struct {
	SessionID        string `json:"session_id,omitempty"`
	ContentHTML      string `json:"content_html,omitempty"`
	Restored         string `json:"restored"`
	ReattachHandlers bool   `json:"reattach_handlers"`
}

type NewChatRequest struct {
	ClientID string `json:"client_id" validate:"required"`
}

type NewChatResponse struct {
	SessionID   string `json:"session_id"`
	WelcomeHTML string `json:"welcome_html"`
}

type CloseChatRequest struct {
	ClientID string `json:"client_id" validate:"required"`
}
