package service

import (
	"context"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/repository/interfaces"
)

// StatsService 创作者工作台的统计数据
type StatsService struct {
	orderRepo   interfaces.OrderRepository
	productRepo interfaces.ProductRepository
}

func NewStatsService(orderRepo interfaces.OrderRepository, productRepo interfaces.ProductRepository) *StatsService {
	return &StatsService{orderRepo, productRepo}
}

// GetCreatorStats 汇总创作者的订单数、总收入、待处理订单数和商品数
func (s *StatsService) GetCreatorStats(ctx context.Context, creatorID string) (*model.CreatorStats, error) {
	orders, err := s.orderRepo.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询创作者订单失败", err)
	}

	stats := &model.CreatorStats{}
	for _, order := range orders {
		stats.TotalOrders++
		if order.Status != model.OrderStatusCancelled {
			stats.TotalRevenue += order.Amount
		}
		if order.Status == model.OrderStatusPending {
			stats.PendingOrders++
		}
	}

	products, err := s.productRepo.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询创作者商品失败", err)
	}
	stats.ProductCount = len(products)

	return stats, nil
}
