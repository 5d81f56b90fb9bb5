package contract

import (
	"context"
	"time"

	"ecom-support-widget/internal/entity"
	"ecom-support-widget/internal/repository/specification"
)

// DailyCount is one day's message volume, for the dashboard activity chart.
type DailyCount struct {
	Day   time.Time
	Count int64
}

type ConversationRepository interface {
	Create(ctx context.Context, message *entity.ConversationMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountDistinctSessions(ctx context.Context) (int64, error)
	CountPerDay(ctx context.Context, since time.Time) ([]DailyCount, error)
}
