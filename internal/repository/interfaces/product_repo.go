package interfaces

import (
	"context"

	"fanjoy-backend/internal/model"
)

// ProductRepository 商品镜像存储接口。查不到记录时返回 (nil, nil)。
type ProductRepository interface {
	// Save 以商品ID为文档主键整体写入，创建和更新共用
	Save(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByCreator(ctx context.Context, creatorID string) ([]*model.Product, error)
	Delete(ctx context.Context, id string) error
}
