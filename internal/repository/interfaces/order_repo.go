package interfaces

import (
	"context"

	"fanjoy-backend/internal/model"
)

// OrderRepository 订单存储接口。查不到记录时返回 (nil, nil)。
type OrderRepository interface {
	// Create 以订单ID为文档主键整体写入，同ID重复写入为覆盖（天然幂等）
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	// FindBySessionID 按 sessionId 字段做二级查询，命中第一条
	FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	// FindByCreator 返回创作者的全部订单，按创建时间倒序
	FindByCreator(ctx context.Context, creatorID string) ([]*model.Order, error)
	// Patch 在单文档事务内读取-校验-写回，apply 返回错误则放弃写入。
	// 返回修改前后的订单快照；文档不存在时返回 (nil, nil, nil)。
	Patch(ctx context.Context, id string, apply func(*model.Order) error) (*model.Order, *model.Order, error)
}
