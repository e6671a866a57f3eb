package models

import "time"

// Client 客户
type Client struct {
	ID         uint      `gorm:"primarykey" json:"id"`                            // 主键
	Name       string    `gorm:"type:varchar(120);not null;index" json:"name"`    // 名称
	IsArchived bool      `gorm:"not null;default:false;index" json:"is_archived"` // 是否归档
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                         // 更新时间

	Projects []Project `gorm:"foreignKey:ClientID" json:"projects"` // 项目列表
}

// TableName 指定表名
func (Client) TableName() string {
	return "clients"
}

// Project 客户项目
type Project struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                         // 主键
	ClientID   uint      `gorm:"not null;index" json:"client_id"`                              // 所属客户
	Name       string    `gorm:"type:varchar(120);not null" json:"name"`                       // 名称
	Status     string    `gorm:"type:varchar(32);not null;default:'incomplete'" json:"status"` // 项目状态
	IsArchived bool      `gorm:"not null;default:false" json:"is_archived"`                    // 是否归档
	CreatedAt  time.Time `json:"created_at"`                                                   // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                                   // 更新时间
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}
