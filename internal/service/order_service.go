package service

import (
	"context"
	"fmt"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/repository/interfaces"
	"fanjoy-backend/internal/util"

	"go.uber.org/zap"
)

// OrderServiceInterface 订单账本接口
type OrderServiceInterface interface {
	GetOrder(ctx context.Context, idOrSessionID string) (*model.Order, error)
	CreateOrder(ctx context.Context, order *model.Order) error
	UpdateOrder(ctx context.Context, id string, update model.OrderUpdate) (model.OrderStatus, *model.Order, error)
	GetOrdersByCreator(ctx context.Context, creatorID string) ([]*model.Order, error)
}

// OrderService 订单账本。状态流转必须经过流转表校验，
// 更新在单文档事务内完成，并发修改不会互相覆盖。
type OrderService struct {
	orderRepo interfaces.OrderRepository
}

// 确保 OrderService 实现了 OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)

func NewOrderService(orderRepo interfaces.OrderRepository) *OrderService {
	return &OrderService{orderRepo}
}

// GetOrder 按主键查询订单，未命中时回退按 sessionId 查询
func (s *OrderService) GetOrder(ctx context.Context, idOrSessionID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, idOrSessionID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询订单失败", err)
	}

	if order == nil {
		order, err = s.orderRepo.FindBySessionID(ctx, idOrSessionID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrStore, "按会话ID查询订单失败", err)
		}
	}

	if order == nil {
		return nil, errors.New(errors.ErrOrderNotFound, "Order not found")
	}
	return order, nil
}

// CreateOrder 创建订单，未指定状态时默认 pending
func (s *OrderService) CreateOrder(ctx context.Context, order *model.Order) error {
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	if !order.Status.Valid() {
		return errors.New(errors.ErrInvalidTransition, fmt.Sprintf("未知的订单状态: %s", order.Status))
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return errors.Wrap(errors.ErrStore, "创建订单失败", err)
	}
	return nil
}

// UpdateOrder 应用运营侧的部分更新。状态变更需通过流转表校验，
// 返回修改前的状态和修改后的订单，调用方据此决定是否发送通知。
func (s *OrderService) UpdateOrder(ctx context.Context, id string, update model.OrderUpdate) (model.OrderStatus, *model.Order, error) {
	before, after, err := s.orderRepo.Patch(ctx, id, func(order *model.Order) error {
		if update.Status != "" {
			next := model.OrderStatus(update.Status)
			if !next.Valid() {
				return errors.New(errors.ErrInvalidTransition, fmt.Sprintf("未知的订单状态: %s", update.Status))
			}
			// 同状态写入视为无操作，跨状态写入必须是流转表允许的边
			if next != order.Status && !order.Status.CanTransitionTo(next) {
				return errors.New(errors.ErrInvalidTransition,
					fmt.Sprintf("不允许的状态流转: %s -> %s", order.Status, next))
			}
			order.Status = next
		}
		if update.TrackingNumber != "" {
			order.TrackingNumber = update.TrackingNumber
		}
		if update.Notes != "" {
			order.Notes = update.Notes
		}
		return nil
	})

	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return "", nil, appErr
		}
		return "", nil, errors.Wrap(errors.ErrStore, "更新订单失败", err)
	}
	if after == nil {
		return "", nil, errors.New(errors.ErrOrderNotFound, "Order not found")
	}

	util.Logger.Info("订单更新完成",
		zap.String("order_id", id),
		zap.String("previous_status", string(before.Status)),
		zap.String("status", string(after.Status)))
	return before.Status, after, nil
}

// GetOrdersByCreator 返回创作者的全部订单，按创建时间倒序
func (s *OrderService) GetOrdersByCreator(ctx context.Context, creatorID string) ([]*model.Order, error) {
	orders, err := s.orderRepo.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询创作者订单失败", err)
	}
	return orders, nil
}
