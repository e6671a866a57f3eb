package admin

import "github.com/dealsplit/internal/provider"

// Handler 管理接口处理器入口
// 说明：开发者、客户、费用、结算单与仪表盘接口共用同一个容器。
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
