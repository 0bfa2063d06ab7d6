package user

import (
	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/service"
	"fanjoy-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	userService  service.UserServiceInterface
	statsService *service.StatsService
}

func NewProfileHandler(userService service.UserServiceInterface, statsService *service.StatsService) *ProfileHandler {
	return &ProfileHandler{userService, statsService}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	creatorID := c.GetString("creator_id")

	user, err := h.userService.GetUserByUID(c.Request.Context(), creatorID)
	if err != nil {
		util.Logger.Error("获取创作者资料失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": user,
	}, "")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	creatorID := c.GetString("creator_id")

	var updateData struct {
		DisplayName string `json:"displayName" binding:"required"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		util.Logger.Warn("更新创作者资料失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.UpdateDisplayName(c.Request.Context(), creatorID, updateData.DisplayName)
	if err != nil {
		util.Logger.Error("更新创作者资料失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": user,
	}, "资料更新成功")
}

// ConnectPrintify 绑定创作者的 Printify 商店
func (h *ProfileHandler) ConnectPrintify(c *gin.Context) {
	creatorID := c.GetString("creator_id")

	var input struct {
		APIKey string `json:"printifyApiKey" binding:"required"`
		ShopID string `json:"printifyShopId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.ConnectPrintify(c.Request.Context(), creatorID, input.APIKey, input.ShopID)
	if err != nil {
		util.Logger.Error("绑定 Printify 失败", zap.Error(err), zap.String("creator_id", creatorID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"user": user}, "Printify 绑定成功")
}

// ConnectStripe 绑定创作者的收款账户
func (h *ProfileHandler) ConnectStripe(c *gin.Context) {
	creatorID := c.GetString("creator_id")

	var input struct {
		StripeAccountID string `json:"stripeAccountId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.ConnectStripe(c.Request.Context(), creatorID, input.StripeAccountID)
	if err != nil {
		util.Logger.Error("绑定收款账户失败", zap.Error(err), zap.String("creator_id", creatorID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"user": user}, "收款账户绑定成功")
}

// GetStats 返回创作者工作台的统计数据
func (h *ProfileHandler) GetStats(c *gin.Context) {
	creatorID := c.GetString("creator_id")

	stats, err := h.statsService.GetCreatorStats(c.Request.Context(), creatorID)
	if err != nil {
		util.Logger.Error("获取统计数据失败", zap.Error(err), zap.String("creator_id", creatorID))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"stats": stats}, "")
}
