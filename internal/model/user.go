package model

import "time"

// User 创作者账户模型，文档主键为 UID
type User struct {
	UID             string    `json:"uid" firestore:"uid"`
	Email           string    `json:"email" firestore:"email"`
	DisplayName     string    `json:"displayName" firestore:"displayName"`
	PasswordHash    string    `json:"-" firestore:"passwordHash"` // 密码哈希不应在JSON中暴露
	PrintifyAPIKey  string    `json:"printifyApiKey,omitempty" firestore:"printifyApiKey,omitempty"`
	PrintifyShopID  string    `json:"printifyShopId,omitempty" firestore:"printifyShopId,omitempty"`
	StripeAccountID string    `json:"stripeAccountId,omitempty" firestore:"stripeAccountId,omitempty"`
	CreatedAt       time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// StripeOnboarded 判断创作者是否已绑定收款账户。
// 这是接受付款的前置条件：未绑定的创作者不能创建结账会话，也不能收到提现。
func (u *User) StripeOnboarded() bool {
	return u.StripeAccountID != ""
}

// CreatorStats 创作者工作台的统计数据
type CreatorStats struct {
	TotalOrders   int   `json:"totalOrders"`
	TotalRevenue  int64 `json:"totalRevenue"` // 以最小货币单位计（美分）
	PendingOrders int   `json:"pendingOrders"`
	ProductCount  int   `json:"productCount"`
}
