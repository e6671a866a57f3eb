package repository

import "time"

// DeveloperListFilter 查询开发者列表的过滤条件
type DeveloperListFilter struct {
	IncludeArchived bool
	Search          string
}

// ClientListFilter 查询客户列表的过滤条件
type ClientListFilter struct {
	IncludeArchived bool
	Search          string
}

// PayoutListFilter 查询结算单列表的过滤条件
type PayoutListFilter struct {
	Page        int
	PageSize    int
	Search      string
	Status      string
	DeveloperID uint
	Sort        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
