package contact

import (
	"net/http"

	"fanjoy-backend/internal/service"
	"fanjoy-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContactHandler struct {
	emailSender service.EmailSender
}

func NewContactHandler(emailSender service.EmailSender) *ContactHandler {
	return &ContactHandler{emailSender}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitContactForm 接收客服表单，发送工单邮件和用户回执。
// 两封邮件都发送成功才算成功。
func (h *ContactHandler) SubmitContactForm(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	if err := h.emailSender.SendContactEmails(req.Name, req.Email, req.Subject, req.Message); err != nil {
		util.Logger.Error("发送客服邮件失败", zap.Error(err), zap.String("email", req.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
