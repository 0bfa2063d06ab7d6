package service

import (
	"context"
	"encoding/json"
	"time"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/repository/interfaces"
	"fanjoy-backend/internal/util"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"
)

// WebhookService 支付事件入口。验证签名后按事件类型分发，
// 未识别的事件类型直接确认，避免上游无限重试。
type WebhookService struct {
	orderService OrderServiceInterface
	payoutRepo   interfaces.PayoutRepository
	userRepo     interfaces.UserRepository
	productRepo  interfaces.ProductRepository
	emailSender  EmailSender
	secret       string
}

func NewWebhookService(
	orderService OrderServiceInterface,
	payoutRepo interfaces.PayoutRepository,
	userRepo interfaces.UserRepository,
	productRepo interfaces.ProductRepository,
	emailSender EmailSender,
	secret string,
) *WebhookService {
	return &WebhookService{
		orderService: orderService,
		payoutRepo:   payoutRepo,
		userRepo:     userRepo,
		productRepo:  productRepo,
		emailSender:  emailSender,
		secret:       secret,
	}
}

// HandleEvent 验证签名并处理一条支付事件
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.secret)
	if err != nil {
		util.Logger.Warn("事件签名验证失败", zap.Error(err))
		return errors.Wrap(errors.ErrInvalidSignature, "Invalid webhook signature", err)
	}

	util.Logger.Info("收到支付事件",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	case "payment_intent.succeeded":
		return s.handlePaymentSucceeded(ctx, event)
	case "payout.paid":
		return s.handlePayoutPaid(ctx, event)
	default:
		// 不关心的事件类型直接确认
		util.Logger.Info("忽略未处理的事件类型", zap.String("event_type", string(event.Type)))
		return nil
	}
}

// handleCheckoutCompleted 结账完成：落一条 pending 订单并通知创作者。
// 整单写入以会话ID为主键，同一事件重复投递为等值覆盖，
// 但创作者通知邮件会重复发送（记录在案的已知行为）。
func (s *WebhookService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return errors.Wrap(errors.ErrBadRequest, "解析结账会话失败", err)
	}

	customerEmail := session.Metadata["customerEmail"]
	productID := session.Metadata["productId"]
	creatorID := session.Metadata["creatorId"]

	if customerEmail == "" || productID == "" || creatorID == "" {
		return errors.New(errors.ErrValidation, "Missing required metadata")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return errors.Wrap(errors.ErrStore, "查询商品失败", err)
	}
	if product == nil {
		return errors.New(errors.ErrProductNotFound, "Product not found")
	}

	creator, err := s.userRepo.FindByUID(ctx, creatorID)
	if err != nil {
		return errors.Wrap(errors.ErrStore, "查询创作者失败", err)
	}
	if creator == nil {
		return errors.New(errors.ErrCreatorNotFound, "Creator not found")
	}

	order := &model.Order{
		ID:            session.ID,
		SessionID:     session.ID,
		CustomerEmail: customerEmail,
		ProductID:     productID,
		CreatorID:     creatorID,
		CreatorEmail:  creator.Email,
		Amount:        session.AmountTotal,
		Status:        model.OrderStatusPending,
	}

	if err := s.orderService.CreateOrder(ctx, order); err != nil {
		return err
	}

	s.emailSender.SendCreatorOrderNotification(creator.Email, order.ID, order.Amount, customerEmail)
	return nil
}

// handlePaymentSucceeded 支付成功：订单进入 processing
func (s *WebhookService) handlePaymentSucceeded(ctx context.Context, event stripe.Event) error {
	var paymentIntent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
		return errors.Wrap(errors.ErrBadRequest, "解析支付意图失败", err)
	}

	orderID := paymentIntent.Metadata["orderId"]
	if orderID == "" {
		return errors.New(errors.ErrValidation, "Missing order ID in metadata")
	}

	_, _, err := s.orderService.UpdateOrder(ctx, orderID, model.OrderUpdate{
		Status: string(model.OrderStatusProcessing),
	})
	return err
}

// handlePayoutPaid 提现到账：标记提现记录完成并通知创作者。
// 提现记录存在 payouts 集合中；事件携带的提现ID查不到记录时
// 只记录告警并确认事件，不让上游反复重试。
func (s *WebhookService) handlePayoutPaid(ctx context.Context, event stripe.Event) error {
	var payout stripe.Payout
	if err := json.Unmarshal(event.Data.Raw, &payout); err != nil {
		return errors.Wrap(errors.ErrBadRequest, "解析提现事件失败", err)
	}

	creatorID := payout.Metadata["creatorId"]
	if creatorID == "" {
		return errors.New(errors.ErrValidation, "Missing creator ID in metadata")
	}

	creator, err := s.userRepo.FindByUID(ctx, creatorID)
	if err != nil {
		return errors.Wrap(errors.ErrStore, "查询创作者失败", err)
	}
	if creator == nil {
		return errors.New(errors.ErrCreatorNotFound, "Creator not found")
	}

	record, err := s.payoutRepo.FindByID(ctx, payout.ID)
	if err != nil {
		return errors.Wrap(errors.ErrStore, "查询提现记录失败", err)
	}
	if record == nil {
		util.Logger.Warn("提现记录不存在，跳过状态更新",
			zap.String("payout_id", payout.ID),
			zap.String("creator_id", creatorID))
	} else {
		if err := s.payoutRepo.MarkCompleted(ctx, payout.ID, time.Now(), payout.ID); err != nil {
			return errors.Wrap(errors.ErrStore, "更新提现状态失败", err)
		}
	}

	s.emailSender.SendPayoutNotification(creator.Email, payout.Amount, time.Now())
	return nil
}
