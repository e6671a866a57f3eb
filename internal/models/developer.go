package models

import "time"

// Developer 开发者（结算收款方）
type Developer struct {
	ID         uint      `gorm:"primarykey" json:"id"`                            // 主键
	Name       string    `gorm:"type:varchar(120);not null;index" json:"name"`    // 名称
	Email      string    `gorm:"type:varchar(255)" json:"email"`                  // 邮箱
	IsArchived bool      `gorm:"not null;default:false;index" json:"is_archived"` // 是否归档
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                         // 更新时间
}

// TableName 指定表名
func (Developer) TableName() string {
	return "developers"
}
