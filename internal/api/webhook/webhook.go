package webhook

import (
	"io"
	"net/http"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/service"
	"fanjoy-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WebhookHandler struct {
	webhookService *service.WebhookService
}

func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService}
}

// HandleStripeWebhook 处理支付渠道的事件推送。
// 账本写入成功即确认（200），通知邮件异步尽力投递；
// 处理失败时返回非200，由支付渠道按自身策略重试。
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		util.Logger.Error("读取事件请求体失败", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing stripe-signature header"})
		return
	}

	if err := h.webhookService.HandleEvent(c.Request.Context(), body, signature); err != nil {
		util.Logger.Error("处理支付事件失败", zap.Error(err))

		if appErr, ok := err.(*errors.AppError); ok {
			c.JSON(errors.StatusOf(appErr.Code), gin.H{"error": appErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
