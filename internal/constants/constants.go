package constants

// 结算单状态常量
const (
	PayoutStatusNotPaid         = "not_paid"
	PayoutStatusPending         = "pending"
	PayoutStatusPaymentComplete = "payment_complete"
	PayoutStatusCanceled        = "canceled"
)

// 费用类型常量
const (
	FeeKindPercentage = "percentage"
	FeeKindFixed      = "fixed"
)

// 内置费用名称
const (
	FeeNamePlatform   = "Platform Fee"
	FeeNameManagement = "Management Fee"
	FeeNamePayment    = "Payment Fee"
)

// 费用来源常量
const (
	FeeSourceDefault = "default"
	FeeSourceCustom  = "custom"
)

// 项目状态常量
const (
	ProjectStatusIncomplete = "incomplete"
	ProjectStatusComplete   = "complete"
	ProjectStatusArchived   = "archived"
)

// 结算单列表排序常量
const (
	PayoutSortGrossDesc   = "gross_desc"
	PayoutSortGrossAsc    = "gross_asc"
	PayoutSortCreatedDesc = "created_desc"
	PayoutSortCreatedAsc  = "created_asc"
)

// 仪表盘时间范围常量
const (
	DashboardRangeAll       = "all"
	DashboardRangeYesterday = "yesterday"
	DashboardRange7Days     = "7d"
	DashboardRange30Days    = "30d"
	DashboardRangeThisMonth = "this_month"
	DashboardRangeLastMonth = "last_month"
	DashboardRangeThisYear  = "this_year"
	DashboardRangeLastYear  = "last_year"
	DashboardRangeCustom    = "custom"
)

// 队列与任务常量
const (
	QueueDefault        = "default"
	TaskDashboardWarmup = "dashboard:warmup"
)

// PayoutStatuses 结算单状态（按看板列顺序）
func PayoutStatuses() []string {
	return []string{
		PayoutStatusNotPaid,
		PayoutStatusPending,
		PayoutStatusPaymentComplete,
		PayoutStatusCanceled,
	}
}
