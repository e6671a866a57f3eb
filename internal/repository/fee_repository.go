package repository

import (
	"errors"
	"strings"

	"github.com/dealsplit/internal/models"

	"gorm.io/gorm"
)

// FeeRepository 自定义费用数据访问接口
type FeeRepository interface {
	List() ([]models.CustomFee, error)
	GetByID(id uint) (*models.CustomFee, error)
	GetByName(name string) (*models.CustomFee, error)
	Create(fee *models.CustomFee) error
	Delete(id uint) error
}

// GormFeeRepository GORM 实现
type GormFeeRepository struct {
	db *gorm.DB
}

// NewFeeRepository 创建费用仓库
func NewFeeRepository(db *gorm.DB) *GormFeeRepository {
	return &GormFeeRepository{db: db}
}

// List 自定义费用列表（按创建顺序）
func (r *GormFeeRepository) List() ([]models.CustomFee, error) {
	var fees []models.CustomFee
	if err := r.db.Order("id ASC").Find(&fees).Error; err != nil {
		return nil, err
	}
	return fees, nil
}

// GetByID 根据 ID 获取自定义费用
func (r *GormFeeRepository) GetByID(id uint) (*models.CustomFee, error) {
	var fee models.CustomFee
	if err := r.db.First(&fee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fee, nil
}

// GetByName 按名称获取自定义费用（忽略大小写）
func (r *GormFeeRepository) GetByName(name string) (*models.CustomFee, error) {
	var fee models.CustomFee
	normalized := strings.ToLower(strings.TrimSpace(name))
	if err := r.db.Where("LOWER(name) = ?", normalized).First(&fee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fee, nil
}

// Create 创建自定义费用
func (r *GormFeeRepository) Create(fee *models.CustomFee) error {
	return r.db.Create(fee).Error
}

// Delete 删除自定义费用
func (r *GormFeeRepository) Delete(id uint) error {
	return r.db.Delete(&models.CustomFee{}, id).Error
}
