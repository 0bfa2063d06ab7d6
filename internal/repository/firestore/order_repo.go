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

const ordersCollection = "orders"

type OrderRepository struct {
	client *firestore.Client
}

func NewOrderRepository(client *firestore.Client) *OrderRepository {
	return &OrderRepository{client}
}

func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	util.Logger.Info("开始写入订单",
		zap.String("order_id", order.ID),
		zap.String("creator_id", order.CreatorID),
		zap.Int64("amount", order.Amount),
		zap.String("status", string(order.Status)))

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	// 以订单ID为主键整体写入，重复投递时为等值覆盖
	_, err := r.client.Collection(ordersCollection).Doc(order.ID).Set(ctx, order)
	if err != nil {
		util.Logger.Error("写入订单失败", zap.Error(err), zap.String("order_id", order.ID))
		return err
	}

	util.Logger.Info("订单写入成功", zap.String("order_id", order.ID))
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	doc, err := r.client.Collection(ordersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		util.Logger.Error("查询订单失败", zap.Error(err), zap.String("order_id", id))
		return nil, err
	}

	var order model.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	iter := r.client.Collection(ordersCollection).
		Where("sessionId", "==", sessionID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("按会话ID查询订单失败", zap.Error(err), zap.String("session_id", sessionID))
		return nil, err
	}

	var order model.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByCreator(ctx context.Context, creatorID string) ([]*model.Order, error) {
	iter := r.client.Collection(ordersCollection).
		Where("creatorId", "==", creatorID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var orders []*model.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			util.Logger.Error("查询创作者订单失败", zap.Error(err), zap.String("creator_id", creatorID))
			return nil, err
		}

		var order model.Order
		if err := doc.DataTo(&order); err != nil {
			return nil, err
		}
		orders = append(orders, &order)
	}
	return orders, nil
}

func (r *OrderRepository) Patch(ctx context.Context, id string, apply func(*model.Order) error) (*model.Order, *model.Order, error) {
	ref := r.client.Collection(ordersCollection).Doc(id)

	var before, after model.Order
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if err := doc.DataTo(&before); err != nil {
			return err
		}

		after = before
		if err := apply(&after); err != nil {
			return err
		}
		after.UpdatedAt = time.Now()

		return tx.Set(ref, &after)
	})

	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	util.Logger.Info("订单更新成功",
		zap.String("order_id", id),
		zap.String("previous_status", string(before.Status)),
		zap.String("status", string(after.Status)))
	return &before, &after, nil
}
