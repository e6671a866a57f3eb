package models

import "time"

// Payout 开发者结算单
type Payout struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                      // 主键
	PayoutNo      string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"payout_no"`    // 结算单号
	DeveloperID   uint      `gorm:"not null;index" json:"developer_id"`                        // 开发者ID
	DeveloperName string    `gorm:"type:varchar(120);not null" json:"developer_name"`          // 开发者名称快照
	GrossTotal    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"gross_total"`  // 项目金额合计
	TotalFees     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_fees"`   // 费用合计
	FinalPayout   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"final_payout"` // 实际结算金额
	Status        string    `gorm:"type:varchar(32);not null;index" json:"status"`             // 结算状态
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time `gorm:"index" json:"updated_at"`                                   // 更新时间

	LineItems []PayoutLineItem      `gorm:"foreignKey:PayoutID" json:"line_items"`    // 项目明细
	Fees      []PayoutFeeEntry      `gorm:"foreignKey:PayoutID" json:"fee_breakdown"` // 费用明细
	Timeline  []PayoutTimelineEntry `gorm:"foreignKey:PayoutID" json:"timeline"`      // 状态时间线
}

// TableName 指定表名
func (Payout) TableName() string {
	return "payouts"
}

// ClientNames 返回结算单涉及的客户名称（去重，保持明细顺序）
func (p Payout) ClientNames() []string {
	seen := make(map[string]struct{}, len(p.LineItems))
	result := make([]string, 0, len(p.LineItems))
	for _, item := range p.LineItems {
		if _, ok := seen[item.ClientName]; ok {
			continue
		}
		seen[item.ClientName] = struct{}{}
		result = append(result, item.ClientName)
	}
	return result
}

// ProjectNames 返回结算单涉及的项目名称
func (p Payout) ProjectNames() []string {
	names := make([]string, 0, len(p.LineItems))
	for _, item := range p.LineItems {
		names = append(names, item.ProjectName)
	}
	return names
}

// PayoutLineItem 结算单项目明细
type PayoutLineItem struct {
	ID          uint   `gorm:"primarykey" json:"-"`                                 // 主键
	PayoutID    uint   `gorm:"not null;index" json:"-"`                             // 结算单ID
	ClientID    uint   `gorm:"not null;index" json:"client_id"`                     // 客户ID
	ClientName  string `gorm:"type:varchar(120);not null" json:"client_name"`       // 客户名称快照
	ProjectID   uint   `gorm:"not null" json:"project_id"`                          // 项目ID
	ProjectName string `gorm:"type:varchar(120);not null" json:"project_name"`      // 项目名称快照
	Amount      Money  `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 金额
	SortOrder   int    `gorm:"not null;default:0" json:"-"`                         // 明细顺序
}

// TableName 指定表名
func (PayoutLineItem) TableName() string {
	return "payout_line_items"
}

// PayoutFeeEntry 结算单费用明细
type PayoutFeeEntry struct {
	ID               uint   `gorm:"primarykey" json:"-"`                                 // 主键
	PayoutID         uint   `gorm:"not null;index" json:"-"`                             // 结算单ID
	Name             string `gorm:"type:varchar(120);not null" json:"name"`              // 费用名称
	Amount           Money  `gorm:"type:decimal(20,2);not null;default:0" json:"amount"` // 费用金额
	Kind             string `gorm:"type:varchar(20)" json:"kind,omitempty"`              // 费用类型快照
	Value            Rate   `gorm:"type:decimal(20,4);not null;default:0" json:"value"`  // 费率或固定值快照
	BasedOnRemainder bool   `gorm:"not null;default:false" json:"based_on_remainder"`    // 是否按剩余金额计算
	SortOrder        int    `gorm:"not null;default:0" json:"-"`                         // 明细顺序
}

// TableName 指定表名
func (PayoutFeeEntry) TableName() string {
	return "payout_fee_entries"
}

// PayoutTimelineEntry 结算单状态时间线
type PayoutTimelineEntry struct {
	ID        uint      `gorm:"primarykey" json:"-"`                         // 主键
	PayoutID  uint      `gorm:"not null;index" json:"-"`                     // 结算单ID
	Status    string    `gorm:"type:varchar(32);not null" json:"status"`     // 状态
	Timestamp time.Time `gorm:"column:changed_at;not null" json:"timestamp"` // 变更时间
}

// TableName 指定表名
func (PayoutTimelineEntry) TableName() string {
	return "payout_timeline_entries"
}
