package interfaces

import (
	"context"

	"fanjoy-backend/internal/model"
)

// UserRepository 创作者账户存储接口。查不到记录时返回 (nil, nil)。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUID(ctx context.Context, uid string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}
