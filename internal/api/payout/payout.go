package payout

import (
	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/service"
	"fanjoy-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PayoutHandler struct {
	payoutService *service.PayoutService
}

func NewPayoutHandler(payoutService *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService}
}

// CreatePayout 运营侧向创作者发起一笔提现
func (h *PayoutHandler) CreatePayout(c *gin.Context) {
	var input struct {
		CreatorID string `json:"creatorId" binding:"required"`
		Amount    int64  `json:"amount" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Warn("无效的提现请求", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	payout, err := h.payoutService.CreatePayout(c.Request.Context(), input.CreatorID, input.Amount)
	if err != nil {
		util.Logger.Error("发起提现失败",
			zap.Error(err),
			zap.String("creator_id", input.CreatorID),
			zap.Int64("amount", input.Amount))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"payout": payout}, "提现已发起")
}

// ListPayouts 返回当前创作者的提现记录
func (h *PayoutHandler) ListPayouts(c *gin.Context) {
	creatorID := c.GetString("creator_id")

	payouts, err := h.payoutService.GetPayoutsByCreator(c.Request.Context(), creatorID)
	if err != nil {
		util.Logger.Error("查询提现记录失败", zap.Error(err), zap.String("creator_id", creatorID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"payouts": payouts}, "")
}
