package i18n

var messages = map[string]map[string]string{
	LocaleZhCN: {
		"error.bad_request":            "请求参数错误",
		"error.validation_failed":      "数据校验失败",
		"error.invalid_transition":     "结算单状态不允许该流转",
		"error.internal":               "服务器内部错误",
		"error.rate_limited":           "请求过于频繁，请在 %d 秒后重试",
		"error.rate_limit_unavailable": "限流服务暂不可用",
		"error.developer_not_found":    "开发者不存在",
		"error.developer_fetch_failed": "获取开发者失败",
		"error.developer_save_failed":  "保存开发者失败",
		"error.client_not_found":       "客户不存在",
		"error.client_fetch_failed":    "获取客户失败",
		"error.client_save_failed":     "保存客户失败",
		"error.project_not_found":      "项目不存在",
		"error.project_save_failed":    "保存项目失败",
		"error.fee_not_found":          "费用不存在",
		"error.fee_fetch_failed":       "获取费用失败",
		"error.fee_save_failed":        "保存费用失败",
		"error.payout_not_found":       "结算单不存在",
		"error.payout_fetch_failed":    "获取结算单失败",
		"error.payout_save_failed":     "保存结算单失败",
		"error.payout_export_failed":   "导出结算单失败",
		"error.dashboard_fetch_failed": "获取仪表盘数据失败",
	},
	LocaleEnUS: {
		"error.bad_request":            "Invalid request parameters",
		"error.validation_failed":      "Validation failed",
		"error.invalid_transition":     "Payout status transition is not allowed",
		"error.internal":               "Internal server error",
		"error.rate_limited":           "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable": "Rate limit service is unavailable",
		"error.developer_not_found":    "Developer not found",
		"error.developer_fetch_failed": "Failed to fetch developers",
		"error.developer_save_failed":  "Failed to save developer",
		"error.client_not_found":       "Client not found",
		"error.client_fetch_failed":    "Failed to fetch clients",
		"error.client_save_failed":     "Failed to save client",
		"error.project_not_found":      "Project not found",
		"error.project_save_failed":    "Failed to save project",
		"error.fee_not_found":          "Fee not found",
		"error.fee_fetch_failed":       "Failed to fetch fees",
		"error.fee_save_failed":        "Failed to save fee",
		"error.payout_not_found":       "Payout not found",
		"error.payout_fetch_failed":    "Failed to fetch payouts",
		"error.payout_save_failed":     "Failed to save payout",
		"error.payout_export_failed":   "Failed to export payouts",
		"error.dashboard_fetch_failed": "Failed to fetch dashboard data",
	},
}
