package checkout

import (
	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/service"
	"fanjoy-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService}
}

// CreateCheckoutSession 为商品创建支付渠道托管的结账会话
func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	var input struct {
		ProductID     string `json:"productId" binding:"required"`
		Quantity      int64  `json:"quantity" binding:"required,min=1"`
		CustomerEmail string `json:"customerEmail" binding:"required,email"`
		CreatorID     string `json:"creatorId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("无效的结账请求", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	result, err := h.checkoutService.CreateCheckoutSession(
		c.Request.Context(),
		input.ProductID,
		input.Quantity,
		input.CustomerEmail,
		input.CreatorID,
	)
	if err != nil {
		util.Logger.Error("创建结账会话失败",
			zap.Error(err),
			zap.String("product_id", input.ProductID),
			zap.String("creator_id", input.CreatorID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, result, "")
}
