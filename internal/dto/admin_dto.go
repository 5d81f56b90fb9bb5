package dto

import "time"

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DashboardStatsResponse backs the dashboard stat cards.
type DashboardStatsResponse struct {
	TotalMessages  int64 `json:"total_messages"`
	TotalSessions  int64 `json:"total_sessions"`
	MessagesToday  int64 `json:"messages_today"`
	ErrorLogsToday int   `json:"error_logs_today"`
}

type ConversationMessageResponse struct {
	Id               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	MessageType      string    `json:"message_type"`
	MessageContent   string    `json:"message_content"`
	ResponseMetadata string    `json:"response_metadata,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type ConversationListRequest struct {
	Page        int    `query:"page"`
	PageSize    int    `query:"page_size"`
	SessionID   string `query:"session_id"`
	Search      string `query:"search"`
	MessageType string `query:"message_type"`
}

type ConversationListResponse struct {
	Messages []ConversationMessageResponse `json:"messages"`
	Total    int64                         `json:"total"`
	Page     int                           `json:"page"`
	PageSize int                           `json:"page_size"`
}

// DailyMessageCount is one point on the dashboard activity chart.
type DailyMessageCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardAnalyticsResponse struct {
	Daily []DailyMessageCount `json:"daily"`
}

type LogListRequest struct {
	Level  string `query:"level"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}
