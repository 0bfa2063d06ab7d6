package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestOrderStatusValid 测试状态枚举校验
func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusPending.Valid())
	assert.True(t, OrderStatusProcessing.Valid())
	assert.True(t, OrderStatusShipped.Valid())
	assert.True(t, OrderStatusCompleted.Valid())
	assert.True(t, OrderStatusCancelled.Valid())

	assert.False(t, OrderStatus("refunded").Valid())
	assert.False(t, OrderStatus("").Valid())
}

// TestOrderStatusTransitions 测试状态流转表
func TestOrderStatusTransitions(t *testing.T) {
	// 正向推进的边
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusCompleted))

	// 任意非终态都可以取消
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCancelled))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusCancelled))

	// 不允许跳级和回退
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusCompleted))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusProcessing))

	// 终态没有出边
	assert.False(t, OrderStatusCompleted.CanTransitionTo(OrderStatusCancelled))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusCompleted.CanTransitionTo(OrderStatusPending))
}

// TestOrderStatusTerminal 测试终态判断
func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusProcessing.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
}
