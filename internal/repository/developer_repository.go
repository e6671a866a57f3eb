package repository

import (
	"errors"
	"strings"

	"github.com/dealsplit/internal/models"

	"gorm.io/gorm"
)

// DeveloperRepository 开发者数据访问接口
type DeveloperRepository interface {
	List(filter DeveloperListFilter) ([]models.Developer, error)
	GetByID(id uint) (*models.Developer, error)
	Create(developer *models.Developer) error
	Update(developer *models.Developer) error
}

// GormDeveloperRepository GORM 实现
type GormDeveloperRepository struct {
	db *gorm.DB
}

// NewDeveloperRepository 创建开发者仓库
func NewDeveloperRepository(db *gorm.DB) *GormDeveloperRepository {
	return &GormDeveloperRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeveloperRepository) WithTx(tx *gorm.DB) *GormDeveloperRepository {
	if tx == nil {
		return r
	}
	return &GormDeveloperRepository{db: tx}
}

// List 开发者列表
func (r *GormDeveloperRepository) List(filter DeveloperListFilter) ([]models.Developer, error) {
	var developers []models.Developer
	query := r.db.Model(&models.Developer{})
	if !filter.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"name", "email"})
		query = query.Where(condition, repeatLikeArgs("%"+escapeLike(search)+"%", argCount)...)
	}
	if err := query.Order("name ASC, id ASC").Find(&developers).Error; err != nil {
		return nil, err
	}
	return developers, nil
}

// GetByID 根据 ID 获取开发者
func (r *GormDeveloperRepository) GetByID(id uint) (*models.Developer, error) {
	var developer models.Developer
	if err := r.db.First(&developer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &developer, nil
}

// Create 创建开发者
func (r *GormDeveloperRepository) Create(developer *models.Developer) error {
	return r.db.Create(developer).Error
}

// Update 更新开发者
func (r *GormDeveloperRepository) Update(developer *models.Developer) error {
	return r.db.Save(developer).Error
}
