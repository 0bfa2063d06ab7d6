package service

import (
	"strings"

	"fanjoy-backend/internal/model"
)

// ExportService 把创作者订单渲染为CSV
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// csv 列固定为：订单ID、日期、顾客邮箱、金额、状态、运单号、备注。
// 每个字段一律用双引号包裹，金额以美元两位小数格式输出。
var exportColumns = []string{
	"Order ID",
	"Date",
	"Customer Email",
	"Amount",
	"Status",
	"Tracking Number",
	"Notes",
}

// RenderOrdersCSV 渲染 N 条订单为 N+1 行的CSV（表头 + 数据行）
func (s *ExportService) RenderOrdersCSV(orders []*model.Order) string {
	var b strings.Builder
	b.WriteString(strings.Join(exportColumns, ","))

	for _, order := range orders {
		row := []string{
			order.ID,
			order.CreatedAt.Format("2006-01-02"),
			order.CustomerEmail,
			formatAmount(order.Amount),
			string(order.Status),
			order.TrackingNumber,
			order.Notes,
		}

		// 字段只做引号包裹，不做额外转义，与既有导出格式保持一致
		quoted := make([]string, len(row))
		for i, cell := range row {
			quoted[i] = `"` + cell + `"`
		}

		b.WriteString("\n")
		b.WriteString(strings.Join(quoted, ","))
	}

	return b.String()
}
