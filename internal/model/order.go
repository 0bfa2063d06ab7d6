package model

import "time"

// OrderStatus 订单状态枚举
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions 定义允许的状态流转边。
// 订单只能沿 pending → processing → shipped → completed 前进，
// cancelled 可以从任意非终态到达。
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// Valid 判断状态值是否是已定义的枚举值
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal 判断状态是否为终态
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo 判断是否允许从当前状态流转到目标状态
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order 订单模型。ID 与 SessionID 是两个独立字段，
// 结账完成时二者取同一个值，查询时支持按任意一个命中。
type Order struct {
	ID             string      `json:"id" firestore:"id"`
	SessionID      string      `json:"sessionId" firestore:"sessionId"`
	CustomerEmail  string      `json:"customerEmail" firestore:"customerEmail"`
	ProductID      string      `json:"productId" firestore:"productId"`
	CreatorID      string      `json:"creatorId" firestore:"creatorId"`
	CreatorEmail   string      `json:"creatorEmail" firestore:"creatorEmail"`
	Amount         int64       `json:"amount" firestore:"amount"` // 以最小货币单位计（美分）
	Status         OrderStatus `json:"status" firestore:"status"`
	TrackingNumber string      `json:"trackingNumber,omitempty" firestore:"trackingNumber,omitempty"`
	Notes          string      `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedAt      time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt" firestore:"updatedAt"`
}

// OrderUpdate 运营侧允许修改的字段集合，空值表示不修改
type OrderUpdate struct {
	Status         string `json:"status" binding:"omitempty,order_status"`
	TrackingNumber string `json:"trackingNumber"`
	Notes          string `json:"notes"`
}
