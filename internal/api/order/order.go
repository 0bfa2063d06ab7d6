package order

import (
	"fmt"
	"net/http"
	"time"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/service"
	"fanjoy-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService  service.OrderServiceInterface
	exportService *service.ExportService
	emailSender   service.EmailSender
}

func NewOrderHandler(orderService service.OrderServiceInterface, exportService *service.ExportService, emailSender service.EmailSender) *OrderHandler {
	return &OrderHandler{orderService, exportService, emailSender}
}

// GetOrder 按订单ID或结账会话ID查询订单
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.CodeOf(err) == errors.ErrOrderNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		util.Logger.Error("查询订单失败", zap.Error(err), zap.String("order_id", orderID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order details"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrder 应用运营侧的部分更新，状态发生变更时向顾客发送通知
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID := c.Param("id")

	var update model.OrderUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		util.Logger.Warn("无效的请求数据", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	previousStatus, order, err := h.orderService.UpdateOrder(c.Request.Context(), orderID, update)
	if err != nil {
		switch errors.CodeOf(err) {
		case errors.ErrOrderNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.ErrInvalidTransition:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.(*errors.AppError).Message})
		default:
			util.Logger.Error("更新订单失败", zap.Error(err), zap.String("order_id", orderID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}

	// 状态变更时通知顾客，邮件异步尽力投递，不影响已落库的更新
	if update.Status != "" && order.Status != previousStatus {
		h.emailSender.SendOrderStatusEmail(
			order.CustomerEmail,
			order.ID,
			string(order.Status),
			order.Amount,
			order.TrackingNumber,
		)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ExportOrders 导出创作者的全部订单为CSV附件
func (h *OrderHandler) ExportOrders(c *gin.Context) {
	creatorID := c.GetHeader("x-creator-id")
	if creatorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, err := h.orderService.GetOrdersByCreator(c.Request.Context(), creatorID)
	if err != nil {
		util.Logger.Error("导出订单失败", zap.Error(err), zap.String("creator_id", creatorID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export orders"})
		return
	}

	csvContent := h.exportService.RenderOrdersCSV(orders)
	filename := fmt.Sprintf("fanjoy-orders-%s.csv", time.Now().Format("2006-01-02"))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv", []byte(csvContent))
}
