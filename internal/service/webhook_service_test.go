package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testWebhookSecret = "whsec_test_secret"

// MockOrderService 是 OrderServiceInterface 的模拟实现
type MockOrderService struct {
	mock.Mock
}

var _ OrderServiceInterface = (*MockOrderService)(nil)

func (m *MockOrderService) GetOrder(ctx context.Context, idOrSessionID string) (*model.Order, error) {
	args := m.Called(ctx, idOrSessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, id string, update model.OrderUpdate) (model.OrderStatus, *model.Order, error) {
	args := m.Called(ctx, id, update)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.Get(0).(model.OrderStatus), args.Get(1).(*model.Order), args.Error(2)
}

func (m *MockOrderService) GetOrdersByCreator(ctx context.Context, creatorID string) ([]*model.Order, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

// MockPayoutRepository 是 PayoutRepository 接口的模拟实现
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) Create(ctx context.Context, payout *model.Payout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) FindByID(ctx context.Context, id string) (*model.Payout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindByCreator(ctx context.Context, creatorID string) ([]*model.Payout, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Payout), args.Error(1)
}

func (m *MockPayoutRepository) MarkCompleted(ctx context.Context, id string, completedAt time.Time, transactionID string) error {
	args := m.Called(ctx, id, completedAt, transactionID)
	return args.Error(0)
}

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProductRepository 是 ProductRepository 接口的模拟实现
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCreator(ctx context.Context, creatorID string) ([]*model.Product, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEmailSender 是 EmailSender 接口的模拟实现
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendOrderStatusEmail(to, orderID, status string, amount int64, trackingNumber string) {
	m.Called(to, orderID, status, amount, trackingNumber)
}

func (m *MockEmailSender) SendCreatorOrderNotification(to, orderID string, amount int64, customerEmail string) {
	m.Called(to, orderID, amount, customerEmail)
}

func (m *MockEmailSender) SendPayoutNotification(to string, amount int64, scheduledDate time.Time) {
	m.Called(to, amount, scheduledDate)
}

func (m *MockEmailSender) SendContactEmails(name, email, subject, message string) error {
	args := m.Called(name, email, subject, message)
	return args.Error(0)
}

// signPayload 按支付渠道的签名方案生成事件签名头
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func newTestWebhookService() (*WebhookService, *MockOrderService, *MockPayoutRepository, *MockUserRepository, *MockProductRepository, *MockEmailSender) {
	orderService := new(MockOrderService)
	payoutRepo := new(MockPayoutRepository)
	userRepo := new(MockUserRepository)
	productRepo := new(MockProductRepository)
	emailSender := new(MockEmailSender)
	service := NewWebhookService(orderService, payoutRepo, userRepo, productRepo, emailSender, testWebhookSecret)
	return service, orderService, payoutRepo, userRepo, productRepo, emailSender
}

// TestHandleEventInvalidSignature 测试签名验证失败
func TestHandleEventInvalidSignature(t *testing.T) {
	service, _, _, _, _, _ := newTestWebhookService()

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`)
	err := service.HandleEvent(context.Background(), payload, "t=123,v1=deadbeef")
	assert.Error(t, err)
	assert.Equal(t, errors.ErrInvalidSignature, errors.CodeOf(err))
}

// TestCheckoutCompletedCreatesOrder 测试结账完成事件落单并通知创作者
func TestCheckoutCompletedCreatesOrder(t *testing.T) {
	service, orderService, _, userRepo, productRepo, emailSender := newTestWebhookService()

	payload := []byte(`{
		"id": "evt_1",
		"api_version": "2022-11-15",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_123",
				"object": "checkout.session",
				"amount_total": 2500,
				"metadata": {
					"customerEmail": "fan@example.com",
					"productId": "prod_1",
					"creatorId": "creator_1"
				}
			}
		}
	}`)

	productRepo.On("FindByID", mock.Anything, "prod_1").Return(&model.Product{ID: "prod_1", CreatorID: "creator_1"}, nil)
	userRepo.On("FindByUID", mock.Anything, "creator_1").Return(&model.User{UID: "creator_1", Email: "creator@example.com"}, nil)

	var created *model.Order
	orderService.On("CreateOrder", mock.Anything, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Order)
		}).Return(nil)
	emailSender.On("SendCreatorOrderNotification", "creator@example.com", "cs_test_123", int64(2500), "fan@example.com").Return()

	err := service.HandleEvent(context.Background(), payload, signPayload(payload, testWebhookSecret))
	assert.NoError(t, err)

	// 订单ID和会话ID是两个字段，结账完成时取同一个值
	assert.NotNil(t, created)
	assert.Equal(t, "cs_test_123", created.ID)
	assert.Equal(t, "cs_test_123", created.SessionID)
	assert.Equal(t, "fan@example.com", created.CustomerEmail)
	assert.Equal(t, "creator@example.com", created.CreatorEmail)
	assert.Equal(t, int64(2500), created.Amount)
	assert.Equal(t, model.OrderStatusPending, created.Status)
	emailSender.AssertExpectations(t)
}

// TestCheckoutCompletedMissingMetadata 测试元数据缺失时拒绝落单
func TestCheckoutCompletedMissingMetadata(t *testing.T) {
	service, orderService, _, _, _, emailSender := newTestWebhookService()

	payload := []byte(`{
		"id": "evt_2",
		"api_version": "2022-11-15",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_456",
				"object": "checkout.session",
				"amount_total": 2500,
				"metadata": {"customerEmail": "fan@example.com"}
			}
		}
	}`)

	err := service.HandleEvent(context.Background(), payload, signPayload(payload, testWebhookSecret))
	assert.Error(t, err)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
	orderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	emailSender.AssertNotCalled(t, "SendCreatorOrderNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestPaymentSucceededAdvancesOrder 测试支付成功事件推进订单到 processing
func TestPaymentSucceededAdvancesOrder(t *testing.T) {
	service, orderService, _, _, _, _ := newTestWebhookService()

	payload := []byte(`{
		"id": "evt_3",
		"api_version": "2022-11-15",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_123",
				"object": "payment_intent",
				"metadata": {"orderId": "cs_test_123"}
			}
		}
	}`)

	updated := &model.Order{ID: "cs_test_123", Status: model.OrderStatusProcessing}
	orderService.On("UpdateOrder", mock.Anything, "cs_test_123", model.OrderUpdate{
		Status: string(model.OrderStatusProcessing),
	}).Return(model.OrderStatusPending, updated, nil)

	err := service.HandleEvent(context.Background(), payload, signPayload(payload, testWebhookSecret))
	assert.NoError(t, err)
	orderService.AssertExpectations(t)
}

// TestPayoutPaidMarksRecordCompleted 测试提现到账事件更新提现记录
func TestPayoutPaidMarksRecordCompleted(t *testing.T) {
	service, _, payoutRepo, userRepo, _, emailSender := newTestWebhookService()

	payload := []byte(`{
		"id": "evt_4",
		"api_version": "2022-11-15",
		"type": "payout.paid",
		"data": {
			"object": {
				"id": "po_123",
				"object": "payout",
				"amount": 8000,
				"metadata": {"creatorId": "creator_1"}
			}
		}
	}`)

	userRepo.On("FindByUID", mock.Anything, "creator_1").Return(&model.User{UID: "creator_1", Email: "creator@example.com"}, nil)
	payoutRepo.On("FindByID", mock.Anything, "po_123").Return(&model.Payout{ID: "po_123", CreatorID: "creator_1"}, nil)
	payoutRepo.On("MarkCompleted", mock.Anything, "po_123", mock.AnythingOfType("time.Time"), "po_123").Return(nil)
	emailSender.On("SendPayoutNotification", "creator@example.com", int64(8000), mock.AnythingOfType("time.Time")).Return()

	err := service.HandleEvent(context.Background(), payload, signPayload(payload, testWebhookSecret))
	assert.NoError(t, err)
	payoutRepo.AssertExpectations(t)
	emailSender.AssertExpectations(t)
}

// TestPayoutPaidMissingRecord 测试提现记录不存在时只发通知不更新
func TestPayoutPaidMissingRecord(t *testing.T) {
	service, _, payoutRepo, userRepo, _, emailSender := newTestWebhookService()

	payload := []byte(`{
		"id": "evt_5",
		"api_version": "2022-11-15",
		"type": "payout.paid",
		"data": {
			"object": {
				"id": "po_unknown",
				"object": "payout",
				"amount": 3000,
				"metadata": {"creatorId": "creator_1"}
			}
		}
	}`)

	userRepo.On("FindByUID", mock.Anything, "creator_1").Return(&model.User{UID: "creator_1", Email: "creator@example.com"}, nil)
	payoutRepo.On("FindByID", mock.Anything, "po_unknown").Return(nil, nil)
	emailSender.On("SendPayoutNotification", "creator@example.com", int64(3000), mock.AnythingOfType("time.Time")).Return()

	err := service.HandleEvent(context.Background(), payload, signPayload(payload, testWebhookSecret))
	assert.NoError(t, err)
	payoutRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	emailSender.AssertExpectations(t)
}

// TestUnknownEventAcknowledged 测试未识别的事件类型直接确认
func TestUnknownEventAcknowledged(t *testing.T) {
	service, orderService, _, _, _, _ := newTestWebhookService()

	payload := []byte(`{
		"id": "evt_6",
		"api_version": "2022-11-15",
		"type": "invoice.created",
		"data": {"object": {"id": "in_123", "object": "invoice"}}
	}`)

	err := service.HandleEvent(context.Background(), payload, signPayload(payload, testWebhookSecret))
	assert.NoError(t, err)
	orderService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}
