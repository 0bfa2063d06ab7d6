package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/service"
	"fanjoy-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	util.InitLogger("error")
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("order_status", util.ValidateOrderStatus)
	}
	os.Exit(m.Run())
}

// MockOrderService 是 OrderServiceInterface 的模拟实现
type MockOrderService struct {
	mock.Mock
}

var _ service.OrderServiceInterface = (*MockOrderService)(nil)

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

// MockEmailSender 是 EmailSender 接口的模拟实现
type MockEmailSender struct {
	mock.Mock
}

var _ service.EmailSender = (*MockEmailSender)(nil)

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

func newTestRouter() (*gin.Engine, *MockOrderService, *MockEmailSender) {
	mockService := new(MockOrderService)
	mockEmail := new(MockEmailSender)
	handler := NewOrderHandler(mockService, service.NewExportService(), mockEmail)

	router := gin.New()
	router.GET("/api/orders/export", handler.ExportOrders)
	router.GET("/api/orders/:id", handler.GetOrder)
	router.PATCH("/api/orders/:id", handler.UpdateOrder)
	return router, mockService, mockEmail
}

// TestGetOrderHandler 测试按ID查询订单
func TestGetOrderHandler(t *testing.T) {
	router, mockService, _ := newTestRouter()

	order := &model.Order{
		ID:        "cs_test_123",
		SessionID: "cs_test_123",
		Status:    model.OrderStatusPending,
		Amount:    2500,
	}
	mockService.On("GetOrder", mock.Anything, "cs_test_123").Return(order, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/orders/cs_test_123", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got model.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "cs_test_123", got.ID)
	assert.Equal(t, model.OrderStatusPending, got.Status)
}

// TestGetOrderHandlerNotFound 测试订单不存在时的响应体
func TestGetOrderHandlerNotFound(t *testing.T) {
	router, mockService, _ := newTestRouter()

	mockService.On("GetOrder", mock.Anything, "missing").
		Return(nil, errors.New(errors.ErrOrderNotFound, "Order not found"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/orders/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Order not found"}`, w.Body.String())
}

// TestUpdateOrderStatusChangeSendsEmail 测试状态变更后向顾客发送通知
func TestUpdateOrderStatusChangeSendsEmail(t *testing.T) {
	router, mockService, mockEmail := newTestRouter()

	updated := &model.Order{
		ID:             "order_1",
		CustomerEmail:  "fan@example.com",
		Status:         model.OrderStatusShipped,
		Amount:         2500,
		TrackingNumber: "T123",
	}
	mockService.On("UpdateOrder", mock.Anything, "order_1", model.OrderUpdate{
		Status:         "shipped",
		TrackingNumber: "T123",
	}).Return(model.OrderStatusProcessing, updated, nil)
	mockEmail.On("SendOrderStatusEmail", "fan@example.com", "order_1", "shipped", int64(2500), "T123").Return()

	body, _ := json.Marshal(map[string]string{"status": "shipped", "trackingNumber": "T123"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/orders/order_1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	mockEmail.AssertExpectations(t)
}

// TestUpdateOrderNotesOnlyNoEmail 测试只改备注不发通知
func TestUpdateOrderNotesOnlyNoEmail(t *testing.T) {
	router, mockService, mockEmail := newTestRouter()

	updated := &model.Order{
		ID:            "order_1",
		CustomerEmail: "fan@example.com",
		Status:        model.OrderStatusProcessing,
		Notes:         "gift wrap",
	}
	mockService.On("UpdateOrder", mock.Anything, "order_1", model.OrderUpdate{
		Notes: "gift wrap",
	}).Return(model.OrderStatusProcessing, updated, nil)

	body, _ := json.Marshal(map[string]string{"notes": "gift wrap"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/orders/order_1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	mockEmail.AssertNotCalled(t, "SendOrderStatusEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateOrderInvalidTransition 测试不允许的状态流转返回 400
func TestUpdateOrderInvalidTransition(t *testing.T) {
	router, mockService, mockEmail := newTestRouter()

	mockService.On("UpdateOrder", mock.Anything, "order_1", model.OrderUpdate{
		Status: "completed",
	}).Return(model.OrderStatus(""), nil, errors.New(errors.ErrInvalidTransition, "不允许的状态流转: pending -> completed"))

	body, _ := json.Marshal(map[string]string{"status": "completed"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/orders/order_1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockEmail.AssertNotCalled(t, "SendOrderStatusEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestExportOrdersUnauthorized 测试缺少创作者请求头时拒绝导出
func TestExportOrdersUnauthorized(t *testing.T) {
	router, _, _ := newTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/orders/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

// TestExportOrdersCSV 测试CSV附件导出
func TestExportOrdersCSV(t *testing.T) {
	router, mockService, _ := newTestRouter()

	orders := []*model.Order{
		{
			ID:            "cs_test_123",
			CustomerEmail: "fan@example.com",
			Amount:        1050,
			Status:        model.OrderStatusShipped,
			CreatedAt:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	mockService.On("GetOrdersByCreator", mock.Anything, "creator_1").Return(orders, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/orders/export", nil)
	req.Header.Set("x-creator-id", "creator_1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "fanjoy-orders-")

	lines := strings.Split(w.Body.String(), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"$10.50"`)
	assert.Contains(t, lines[1], `"shipped"`)
}
