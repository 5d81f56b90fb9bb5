package contract

import (
	"context"

	"ecom-support-widget/internal/entity"
)

type AdminUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.AdminUser, error)
	Create(ctx context.Context, user *entity.AdminUser) error
}
