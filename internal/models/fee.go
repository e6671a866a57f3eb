package models

import "time"

// CustomFee 自定义费用
type CustomFee struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name      string    `gorm:"type:varchar(120);not null;uniqueIndex" json:"name"` // 费用名称
	Kind      string    `gorm:"type:varchar(20);not null" json:"kind"`              // percentage / fixed
	Value     Rate      `gorm:"type:decimal(20,4);not null;default:0" json:"value"` // 百分比或固定金额
	CreatedAt time.Time `json:"created_at"`                                         // 创建时间
}

// TableName 指定表名
func (CustomFee) TableName() string {
	return "custom_fees"
}
