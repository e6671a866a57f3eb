package queue

import (
	"encoding/json"

	"github.com/dealsplit/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDashboardWarmup 仪表盘缓存预热任务
	TaskDashboardWarmup = constants.TaskDashboardWarmup
)

// DashboardWarmupPayload 仪表盘预热任务载荷
type DashboardWarmupPayload struct {
	Reason   string `json:"reason"`
	PayoutID uint   `json:"payout_id,omitempty"`
	Version  int64  `json:"version"`
}

// NewDashboardWarmupTask 创建仪表盘预热任务
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, body), nil
}

// ParseDashboardWarmupPayload 解析仪表盘预热任务载荷
func ParseDashboardWarmupPayload(task *asynq.Task) (DashboardWarmupPayload, error) {
	var payload DashboardWarmupPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
