package service

import (
	"context"

	"fanjoy-backend/config"
	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/repository/interfaces"
	"fanjoy-backend/internal/util"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"go.uber.org/zap"
)

// CheckoutService 创建支付渠道托管的结账会话
type CheckoutService struct {
	userRepo    interfaces.UserRepository
	productRepo interfaces.ProductRepository
}

func NewCheckoutService(userRepo interfaces.UserRepository, productRepo interfaces.ProductRepository) *CheckoutService {
	return &CheckoutService{userRepo, productRepo}
}

// CheckoutResult 结账会话创建结果
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreateCheckoutSession 为指定商品创建结账会话。
// 创作者必须已绑定收款账户，这是接受付款的前置条件；
// 货款按配置的分成比例转入创作者账户。
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, productID string, quantity int64, customerEmail, creatorID string) (*CheckoutResult, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询商品失败", err)
	}
	if product == nil {
		return nil, errors.New(errors.ErrProductNotFound, "Product not found")
	}

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

	// 创作者分成 = 总价 ×（100 - 平台抽成）/ 100
	total := product.Price * quantity
	creatorShare := total * int64(100-config.AppConfig.PlatformFeePercent) / 100

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(product.Title),
						Description: stripe.String(product.Description),
					},
					UnitAmount: stripe.Int64(product.Price),
				},
				Quantity: stripe.Int64(quantity),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(config.AppConfig.FrontendURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(config.AppConfig.FrontendURL + "/cancel"),
		CustomerEmail: stripe.String(customerEmail),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(creator.StripeAccountID),
				Amount:      stripe.Int64(creatorShare),
			},
		},
	}
	// 结账完成事件依赖这三个元数据字段
	params.AddMetadata("productId", productID)
	params.AddMetadata("creatorId", creatorID)
	params.AddMetadata("customerEmail", customerEmail)

	sess, err := session.New(params)
	if err != nil {
		util.Logger.Error("创建结账会话失败",
			zap.Error(err),
			zap.String("product_id", productID),
			zap.String("creator_id", creatorID))
		return nil, errors.Wrap(errors.ErrProvider, "创建结账会话失败", err)
	}

	util.Logger.Info("结账会话创建成功",
		zap.String("session_id", sess.ID),
		zap.String("creator_id", creatorID),
		zap.Int64("amount", total))

	return &CheckoutResult{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}
