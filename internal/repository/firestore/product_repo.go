package firestore

import (
	"context"
	"time"

	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/util"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const productsCollection = "products"

type ProductRepository struct {
	client *firestore.Client
}

func NewProductRepository(client *firestore.Client) *ProductRepository {
	return &ProductRepository{client}
}

func (r *ProductRepository) Save(ctx context.Context, product *model.Product) error {
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, product)
	if err != nil {
		util.Logger.Error("写入商品镜像失败", zap.Error(err), zap.String("product_id", product.ID))
		return err
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	doc, err := r.client.Collection(productsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var product model.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindByCreator(ctx context.Context, creatorID string) ([]*model.Product, error) {
	iter := r.client.Collection(productsCollection).
		Where("creatorId", "==", creatorID).
		Documents(ctx)
	defer iter.Stop()

	var products []*model.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			util.Logger.Error("查询创作者商品失败", zap.Error(err), zap.String("creator_id", creatorID))
			return nil, err
		}

		var product model.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, err
		}
		products = append(products, &product)
	}
	return products, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(productsCollection).Doc(id).Delete(ctx)
	if err != nil {
		util.Logger.Error("删除商品镜像失败", zap.Error(err), zap.String("product_id", id))
		return err
	}
	return nil
}
