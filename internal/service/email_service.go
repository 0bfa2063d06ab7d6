package service

import (
	"fmt"
	"time"

	"fanjoy-backend/config"
	"fanjoy-backend/internal/common"
	"fanjoy-backend/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailSender 通知分发接口。Send* 系列为异步尽力投递：
// 账本写入成功后发送失败只记录日志，绝不回滚已落库的变更。
type EmailSender interface {
	SendOrderStatusEmail(to, orderID, status string, amount int64, trackingNumber string)
	SendCreatorOrderNotification(to, orderID string, amount int64, customerEmail string)
	SendPayoutNotification(to string, amount int64, scheduledDate time.Time)
	SendContactEmails(name, email, subject, message string) error
}

type EmailService struct {
	smtpHost     string
	smtpPort     int
	username     string
	password     string
	fromEmail    string
	supportEmail string
	frontendURL  string
}

// 确保 EmailService 实现了 EmailSender
var _ EmailSender = (*EmailService)(nil)

func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost:     config.AppConfig.SMTPHost,
		smtpPort:     config.AppConfig.SMTPPort,
		username:     config.AppConfig.SMTPUsername,
		password:     config.AppConfig.SMTPPassword,
		fromEmail:    config.AppConfig.SMTPFromEmail,
		supportEmail: config.AppConfig.SupportEmail,
		frontendURL:  config.AppConfig.FrontendURL,
	}
}

// formatAmount 把最小货币单位金额格式化为美元字符串，如 1050 -> "$10.50"
func formatAmount(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// SendOrderStatusEmail 向顾客发送订单状态变更通知
func (s *EmailService) SendOrderStatusEmail(to, orderID, status string, amount int64, trackingNumber string) {
	subject := fmt.Sprintf("Fanjoy Order #%s Status Update", orderID)

	trackingBlock := ""
	if trackingNumber != "" {
		trackingBlock = fmt.Sprintf("<p>Tracking Number: %s</p>", trackingNumber)
	}

	body := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<div style="text-align: center; margin-bottom: 30px;">
			<h1 style="color: #4F46E5; margin: 0;">Fanjoy</h1>
		</div>
		<h2 style="color: #1F2937;">Order Status Update</h2>
		<p>Your Fanjoy order #%s has been updated to: <strong>%s</strong></p>
		<p>Amount: %s</p>
		%s
		<p>You can view your order details at: %s/orders/%s</p>
		<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #E5E7EB;">
			<p style="color: #6B7280; font-size: 14px;">Thank you for shopping with Fanjoy!</p>
		</div>
	</div>
	`, orderID, status, formatAmount(amount), trackingBlock, s.frontendURL, orderID)

	s.sendEmailAsync(to, subject, body)
}

// SendCreatorOrderNotification 向创作者发送新订单通知
func (s *EmailService) SendCreatorOrderNotification(to, orderID string, amount int64, customerEmail string) {
	subject := fmt.Sprintf("New Fanjoy Order Received - #%s", orderID)
	body := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<div style="text-align: center; margin-bottom: 30px;">
			<h1 style="color: #4F46E5; margin: 0;">Fanjoy</h1>
		</div>
		<h2 style="color: #1F2937;">New Order Received</h2>
		<p>Order ID: %s</p>
		<p>Amount: %s</p>
		<p>Customer Email: %s</p>
		<p>View order details at: %s/dashboard/orders/%s</p>
		<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #E5E7EB;">
			<p style="color: #6B7280; font-size: 14px;">Thank you for being a Fanjoy creator!</p>
		</div>
	</div>
	`, orderID, formatAmount(amount), customerEmail, s.frontendURL, orderID)

	s.sendEmailAsync(to, subject, body)
}

// SendPayoutNotification 向创作者发送提现通知
func (s *EmailService) SendPayoutNotification(to string, amount int64, scheduledDate time.Time) {
	subject := "Fanjoy Payout Scheduled"
	body := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<div style="text-align: center; margin-bottom: 30px;">
			<h1 style="color: #4F46E5; margin: 0;">Fanjoy</h1>
		</div>
		<h2 style="color: #1F2937;">Payout Scheduled</h2>
		<p>A payout of %s has been scheduled for %s.</p>
		<p>View payout details at: %s/dashboard/payouts</p>
		<div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #E5E7EB;">
			<p style="color: #6B7280; font-size: 14px;">Thank you for being a Fanjoy creator!</p>
		</div>
	</div>
	`, formatAmount(amount), scheduledDate.Format("2006-01-02"), s.frontendURL)

	s.sendEmailAsync(to, subject, body)
}

// SendContactEmails 发送客服工单邮件和用户回执。
// 两封邮件同步发送，任一失败都向调用方报错。
func (s *EmailService) SendContactEmails(name, email, subject, message string) error {
	supportBody := fmt.Sprintf(`
	<h2>New Support Request</h2>
	<p><strong>From:</strong> %s (%s)</p>
	<p><strong>Subject:</strong> %s</p>
	<p><strong>Message:</strong></p>
	<p>%s</p>
	`, name, email, subject, message)

	if err := s.sendEmail(s.supportEmail, fmt.Sprintf("[Fanjoy Support] %s", subject), supportBody); err != nil {
		return fmt.Errorf("发送客服工单邮件失败: %w", err)
	}

	ackBody := fmt.Sprintf(`
	<h2>Thank you for contacting Fanjoy Support</h2>
	<p>Hi %s,</p>
	<p>We have received your message and will get back to you as soon as possible.</p>
	<p>For your reference, here's what you sent us:</p>
	<p><strong>Subject:</strong> %s</p>
	<p><strong>Message:</strong></p>
	<p>%s</p>
	<p>Best regards,<br>The Fanjoy Team</p>
	`, name, subject, message)

	if err := s.sendEmail(email, "Thank you for contacting Fanjoy Support", ackBody); err != nil {
		return fmt.Errorf("发送回执邮件失败: %w", err)
	}

	return nil
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("Fanjoy <%s>", s.fromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true

	// 网络抖动时重试，其他错误直接返回
	if err := common.WithRetry(func() error {
		return d.DialAndSend(m)
	}, 3); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}
