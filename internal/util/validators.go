package util

import (
	"github.com/go-playground/validator/v10"
)

// 订单状态的合法枚举值，与账本的状态流转表保持一致
var validOrderStatuses = map[string]bool{
	"pending":    true,
	"processing": true,
	"shipped":    true,
	"completed":  true,
	"cancelled":  true,
}

// ValidateOrderStatus 验证字段是否为已定义的订单状态
func ValidateOrderStatus(fl validator.FieldLevel) bool {
	return validOrderStatuses[fl.Field().String()]
}
