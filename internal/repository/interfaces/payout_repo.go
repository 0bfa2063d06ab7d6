package interfaces

import (
	"context"
	"time"

	"fanjoy-backend/internal/model"
)

// PayoutRepository 提现记录存储接口。查不到记录时返回 (nil, nil)。
type PayoutRepository interface {
	Create(ctx context.Context, payout *model.Payout) error
	FindByID(ctx context.Context, id string) (*model.Payout, error)
	// FindByCreator 返回创作者的全部提现记录，按创建时间倒序
	FindByCreator(ctx context.Context, creatorID string) ([]*model.Payout, error)
	MarkCompleted(ctx context.Context, id string, completedAt time.Time, transactionID string) error
}
