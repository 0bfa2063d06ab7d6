package model

import "time"

const (
	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
)

// Payout 创作者提现记录，以支付渠道的转账ID作为文档主键
type Payout struct {
	ID            string     `json:"id" firestore:"id"`
	CreatorID     string     `json:"creatorId" firestore:"creatorId"`
	Amount        int64      `json:"amount" firestore:"amount"` // 以最小货币单位计（美分）
	Status        string     `json:"status" firestore:"status"`
	CreatedAt     time.Time  `json:"createdAt" firestore:"createdAt"`
	ScheduledDate time.Time  `json:"scheduledDate" firestore:"scheduledDate"`
	CompletedAt   *time.Time `json:"completedAt,omitempty" firestore:"completedAt,omitempty"`
	TransactionID string     `json:"transactionId,omitempty" firestore:"transactionId,omitempty"`
}
