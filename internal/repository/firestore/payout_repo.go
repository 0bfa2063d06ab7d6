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

const payoutsCollection = "payouts"

type PayoutRepository struct {
	client *firestore.Client
}

func NewPayoutRepository(client *firestore.Client) *PayoutRepository {
	return &PayoutRepository{client}
}

func (r *PayoutRepository) Create(ctx context.Context, payout *model.Payout) error {
	util.Logger.Info("开始写入提现记录",
		zap.String("payout_id", payout.ID),
		zap.String("creator_id", payout.CreatorID),
		zap.Int64("amount", payout.Amount))

	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = time.Now()
	}

	_, err := r.client.Collection(payoutsCollection).Doc(payout.ID).Set(ctx, payout)
	if err != nil {
		util.Logger.Error("写入提现记录失败", zap.Error(err), zap.String("payout_id", payout.ID))
		return err
	}
	return nil
}

func (r *PayoutRepository) FindByID(ctx context.Context, id string) (*model.Payout, error) {
	doc, err := r.client.Collection(payoutsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var payout model.Payout
	if err := doc.DataTo(&payout); err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *PayoutRepository) FindByCreator(ctx context.Context, creatorID string) ([]*model.Payout, error) {
	iter := r.client.Collection(payoutsCollection).
		Where("creatorId", "==", creatorID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var payouts []*model.Payout
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			util.Logger.Error("查询创作者提现记录失败", zap.Error(err), zap.String("creator_id", creatorID))
			return nil, err
		}

		var payout model.Payout
		if err := doc.DataTo(&payout); err != nil {
			return nil, err
		}
		payouts = append(payouts, &payout)
	}
	return payouts, nil
}

func (r *PayoutRepository) MarkCompleted(ctx context.Context, id string, completedAt time.Time, transactionID string) error {
	_, err := r.client.Collection(payoutsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: model.PayoutStatusCompleted},
		{Path: "completedAt", Value: completedAt},
		{Path: "transactionId", Value: transactionID},
	})
	if err != nil {
		util.Logger.Error("更新提现状态失败", zap.Error(err), zap.String("payout_id", id))
		return err
	}

	util.Logger.Info("提现已标记完成",
		zap.String("payout_id", id),
		zap.String("transaction_id", transactionID))
	return nil
}
