package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"ecom-support-widget/internal/config"
	"ecom-support-widget/internal/dto"
	"ecom-support-widget/internal/entity"
	"ecom-support-widget/internal/pkg/logger"
	"ecom-support-widget/internal/repository/contract"
	"ecom-support-widget/internal/repository/specification"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	analyticsWindow  = 7 // days shown on the dashboard chart
	defaultLogLimit  = 50
	maxLogLimit      = 500
	errorLogScanSize = 1000
)

type IAdminService interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	Analytics(ctx context.Context) (*dto.DashboardAnalyticsResponse, error)
	Conversations(ctx context.Context, req *dto.ConversationListRequest) (*dto.ConversationListResponse, error)
	ExportConversationsCSV(ctx context.Context, w io.Writer, sessionID string) error
	Logs(req *dto.LogListRequest) ([]logger.LogEntry, error)
}

type adminService struct {
	conversationRepo contract.ConversationRepository
	adminUserRepo    contract.AdminUserRepository
	cfg              *config.Config
	log              logger.ILogger
}

func NewAdminService(
	conversationRepo contract.ConversationRepository,
	adminUserRepo contract.AdminUserRepository,
	cfg *config.Config,
	log logger.ILogger,
) IAdminService {
	return &adminService{
		conversationRepo: conversationRepo,
		adminUserRepo:    adminUserRepo,
		cfg:              cfg,
		log:              log,
	}
}

func (s *adminService) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	user, err := s.adminUserRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.Admin.TokenTTLHours) * time.Hour)
	claims := jwt.MapClaims{
		"username": user.Username,
		"exp":      expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Admin.JWTSecret))
	if err != nil {
		return nil, err
	}

	s.log.Info("admin", "admin login", map[string]interface{}{"username": user.Username})

	return &dto.AdminLoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *adminService) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	total, err := s.conversationRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.conversationRepo.CountDistinctSessions(ctx)
	if err != nil {
		return nil, err
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	today, err := s.conversationRepo.Count(ctx, specification.CreatedSince{Since: startOfDay})
	if err != nil {
		return nil, err
	}

	errorLogs, err := s.log.GetLogs("error", errorLogScanSize, 0)
	if err != nil {
		// a missing log file is a zero, not a dashboard failure
		errorLogs = nil
	}
	dayPrefix := time.Now().UTC().Format("2006-01-02")
	errorsToday := 0
	for _, e := range errorLogs {
		if strings.HasPrefix(e.Timestamp, dayPrefix) {
			errorsToday++
		}
	}

	return &dto.DashboardStatsResponse{
		TotalMessages:  total,
		TotalSessions:  sessions,
		MessagesToday:  today,
		ErrorLogsToday: errorsToday,
	}, nil
}

func (s *adminService) Analytics(ctx context.Context) (*dto.DashboardAnalyticsResponse, error) {
	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(analyticsWindow - 1))
	counts, err := s.conversationRepo.CountPerDay(ctx, since)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDay[c.Day.UTC().Format("2006-01-02")] = c.Count
	}

	// emit every day in the window so the chart has no gaps
	daily := make([]dto.DailyMessageCount, 0, analyticsWindow)
	for i := 0; i < analyticsWindow; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		daily = append(daily, dto.DailyMessageCount{Date: day, Count: byDay[day]})
	}

	return &dto.DashboardAnalyticsResponse{Daily: daily}, nil
}

func (s *adminService) Conversations(ctx context.Context, req *dto.ConversationListRequest) (*dto.ConversationListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filters := s.conversationFilters(req)

	total, err := s.conversationRepo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	listSpecs := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	messages, err := s.conversationRepo.FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ConversationMessageResponse, 0, len(messages))
	for _, m := range messages {
		items = append(items, dto.ConversationMessageResponse{
			Id:               m.Id.String(),
			SessionID:        m.SessionId.String(),
			MessageType:      m.MessageType,
			MessageContent:   m.MessageContent,
			ResponseMetadata: string(m.ResponseMetadata),
			CreatedAt:        m.CreatedAt,
		})
	}

	return &dto.ConversationListResponse{
		Messages: items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *adminService) conversationFilters(req *dto.ConversationListRequest) []specification.Specification {
	var filters []specification.Specification
	if req.SessionID != "" {
		if id, err := uuid.Parse(req.SessionID); err == nil {
			filters = append(filters, specification.BySessionId{SessionId: id})
		}
	}
	if req.Search != "" {
		filters = append(filters, specification.ContentContains{Term: req.Search})
	}
	// Only the two known turn kinds filter; anything else lists both sides.
	if req.MessageType == entity.MessageTypeHuman || req.MessageType == entity.MessageTypeAI {
		filters = append(filters, specification.ByMessageType{MessageType: req.MessageType})
	}
	return filters
}

// ExportConversationsCSV streams the transcript table, optionally filtered
// to one session, ordered oldest-first for readability.
func (s *adminService) ExportConversationsCSV(ctx context.Context, w io.Writer, sessionID string) error {
	var specs []specification.Specification
	if sessionID != "" {
		id, err := uuid.Parse(sessionID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
		}
		specs = append(specs, specification.BySessionId{SessionId: id})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: false})

	messages, err := s.conversationRepo.FindAll(ctx, specs...)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "session_id", "message_type", "message_content", "created_at"}); err != nil {
		return err
	}
	for _, m := range messages {
		record := []string{
			m.Id.String(),
			m.SessionId.String(),
			m.MessageType,
			m.MessageContent,
			m.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *adminService) Logs(req *dto.LogListRequest) ([]logger.LogEntry, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := s.log.GetLogs(req.Level, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("reading logs: %w", err)
	}
	return entries, nil
}
