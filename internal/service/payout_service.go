package service

import (
	"context"
	"time"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/repository/interfaces"
	"fanjoy-backend/internal/util"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/transfer"
	"go.uber.org/zap"
)

// PayoutService 创作者提现：发起转账、落记录、发通知
type PayoutService struct {
	payoutRepo  interfaces.PayoutRepository
	userRepo    interfaces.UserRepository
	emailSender EmailSender
}

func NewPayoutService(payoutRepo interfaces.PayoutRepository, userRepo interfaces.UserRepository, emailSender EmailSender) *PayoutService {
	return &PayoutService{payoutRepo, userRepo, emailSender}
}

// CreatePayout 向创作者发起一笔提现。金额以最小货币单位计。
// 提现记录以转账ID为主键写入 payouts 集合。
func (s *PayoutService) CreatePayout(ctx context.Context, creatorID string, amount int64) (*model.Payout, error) {
	creator, err := s.userRepo.FindByUID(ctx, creatorID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询创作者失败", err)
	}
	if creator == nil {
		return nil, errors.New(errors.ErrCreatorNotFound, "Creator not found")
	}
	if !creator.StripeOnboarded() {
		return nil, errors.New(errors.ErrCreatorNotOnboarded, "Creator has not connected their Stripe account")
	}

	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(creator.StripeAccountID),
	}
	params.AddMetadata("creatorId", creatorID)

	t, err := transfer.New(params)
	if err != nil {
		util.Logger.Error("发起转账失败",
			zap.Error(err),
			zap.String("creator_id", creatorID),
			zap.Int64("amount", amount))
		return nil, errors.Wrap(errors.ErrProvider, "发起转账失败", err)
	}

	now := time.Now()
	payout := &model.Payout{
		ID:            t.ID,
		CreatorID:     creatorID,
		Amount:        amount,
		Status:        model.PayoutStatusPending,
		CreatedAt:     now,
		ScheduledDate: now,
	}

	if err := s.payoutRepo.Create(ctx, payout); err != nil {
		return nil, errors.Wrap(errors.ErrStore, "写入提现记录失败", err)
	}

	util.Logger.Info("提现已发起",
		zap.String("payout_id", payout.ID),
		zap.String("creator_id", creatorID),
		zap.Int64("amount", amount))

	s.emailSender.SendPayoutNotification(creator.Email, amount, payout.ScheduledDate)
	return payout, nil
}

// GetPayoutsByCreator 返回创作者的全部提现记录，按创建时间倒序
func (s *PayoutService) GetPayoutsByCreator(ctx context.Context, creatorID string) ([]*model.Payout, error) {
	payouts, err := s.payoutRepo.FindByCreator(ctx, creatorID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询提现记录失败", err)
	}
	return payouts, nil
}
