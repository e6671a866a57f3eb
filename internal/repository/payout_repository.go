package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPayoutStatusStale 条件更新时结算单状态已被其他请求修改
var ErrPayoutStatusStale = errors.New("payout status changed concurrently")

// PayoutRepository 结算单数据访问接口
type PayoutRepository interface {
	Create(payout *models.Payout) error
	GetByID(id uint) (*models.Payout, error)
	GetByIDForUpdate(id uint) (*models.Payout, error)
	List(filter PayoutListFilter) ([]models.Payout, int64, error)
	ListCreatedBetween(from, to *time.Time) ([]models.Payout, error)
	UpdateStatus(id uint, fromStatus, toStatus string, entry *models.PayoutTimelineEntry) error
	UpdateFeeEntry(payoutID uint, entry models.PayoutFeeEntry, totalFees, finalPayout models.Money) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormPayoutRepository
}

// GormPayoutRepository GORM 实现
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository 创建结算单仓库
func NewPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPayoutRepository) WithTx(tx *gorm.DB) *GormPayoutRepository {
	if tx == nil {
		return r
	}
	return &GormPayoutRepository{db: tx}
}

func (r *GormPayoutRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Fees", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

// Create 创建结算单及其明细、费用与时间线
func (r *GormPayoutRepository) Create(payout *models.Payout) error {
	if payout.CreatedAt.IsZero() {
		payout.CreatedAt = time.Now()
	}
	payout.CreatedAt = payout.CreatedAt.UTC()
	return r.db.Create(payout).Error
}

// GetByID 根据 ID 获取结算单详情
func (r *GormPayoutRepository) GetByID(id uint) (*models.Payout, error) {
	var payout models.Payout
	if err := r.withDetails(r.db).First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// GetByIDForUpdate 加行锁读取结算单详情（需在事务中调用）
func (r *GormPayoutRepository) GetByIDForUpdate(id uint) (*models.Payout, error) {
	var payout models.Payout
	if err := r.withDetails(r.db.Clauses(clause.Locking{Strength: "UPDATE"})).First(&payout, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payout, nil
}

// List 结算单列表
func (r *GormPayoutRepository) List(filter PayoutListFilter) ([]models.Payout, int64, error) {
	query := r.db.Model(&models.Payout{})

	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.DeveloperID != 0 {
		query = query.Where("developer_id = ?", filter.DeveloperID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom.UTC())
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo.UTC())
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(search) + "%"
		payoutCondition, _ := buildLikeCondition(r.db, []string{"payouts.developer_name", "payouts.payout_no"})
		itemCondition, itemArgs := buildLikeCondition(r.db, []string{"li.client_name", "li.project_name"})
		args := repeatLikeArgs(like, 2+itemArgs)
		query = query.Where(
			"(("+payoutCondition+") OR EXISTS (SELECT 1 FROM payout_line_items li WHERE li.payout_id = payouts.id AND ("+itemCondition+")))",
			args...,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var payouts []models.Payout
	if err := r.withDetails(query).Order(payoutOrderClause(filter.Sort)).Find(&payouts).Error; err != nil {
		return nil, 0, err
	}
	return payouts, total, nil
}

// ListCreatedBetween 获取时间区间内的结算单（闭区间，nil 表示不限）。
// 创建时间统一以 UTC 写入，比较前边界同样转为 UTC。
func (r *GormPayoutRepository) ListCreatedBetween(from, to *time.Time) ([]models.Payout, error) {
	query := r.db.Model(&models.Payout{})
	if from != nil {
		query = query.Where("created_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("created_at <= ?", to.UTC())
	}
	var payouts []models.Payout
	if err := r.withDetails(query).Order("created_at ASC, id ASC").Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

// UpdateStatus 仅当当前状态仍为 fromStatus 时更新状态并追加时间线，否则返回 ErrPayoutStatusStale
func (r *GormPayoutRepository) UpdateStatus(id uint, fromStatus, toStatus string, entry *models.PayoutTimelineEntry) error {
	updates := map[string]interface{}{
		"status":     toStatus,
		"updated_at": time.Now(),
	}
	result := r.db.Model(&models.Payout{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPayoutStatusStale
	}
	if entry == nil {
		return nil
	}
	entry.PayoutID = id
	return r.db.Create(entry).Error
}

// UpdateFeeEntry 更新单项费用金额并同步结算单合计
func (r *GormPayoutRepository) UpdateFeeEntry(payoutID uint, entry models.PayoutFeeEntry, totalFees, finalPayout models.Money) error {
	if err := r.db.Model(&models.PayoutFeeEntry{}).
		Where("id = ? AND payout_id = ?", entry.ID, payoutID).
		Update("amount", entry.Amount).Error; err != nil {
		return err
	}
	updates := map[string]interface{}{
		"total_fees":   totalFees,
		"final_payout": finalPayout,
		"updated_at":   time.Now(),
	}
	return r.db.Model(&models.Payout{}).Where("id = ?", payoutID).Updates(updates).Error
}

// Delete 物理删除结算单及其全部子记录
func (r *GormPayoutRepository) Delete(id uint) error {
	if err := r.db.Where("payout_id = ?", id).Delete(&models.PayoutLineItem{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("payout_id = ?", id).Delete(&models.PayoutFeeEntry{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("payout_id = ?", id).Delete(&models.PayoutTimelineEntry{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Payout{}, id).Error
}

func payoutOrderClause(sort string) string {
	switch sort {
	case constants.PayoutSortGrossAsc:
		return "gross_total ASC, id ASC"
	case constants.PayoutSortCreatedDesc:
		return "created_at DESC, id DESC"
	case constants.PayoutSortCreatedAsc:
		return "created_at ASC, id ASC"
	default:
		return "gross_total DESC, id DESC"
	}
}
