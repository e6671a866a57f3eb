package repository

import (
	"errors"
	"strings"

	"github.com/dealsplit/internal/models"

	"gorm.io/gorm"
)

// ClientRepository 客户与项目数据访问接口
type ClientRepository interface {
	List(filter ClientListFilter) ([]models.Client, error)
	GetByID(id uint) (*models.Client, error)
	Create(client *models.Client) error
	Update(client *models.Client) error
	CreateProject(project *models.Project) error
	GetProject(clientID, projectID uint) (*models.Project, error)
	UpdateProject(project *models.Project) error
	ListProjectsByIDs(ids []uint) ([]models.Project, error)
}

// GormClientRepository GORM 实现
type GormClientRepository struct {
	db *gorm.DB
}

// NewClientRepository 创建客户仓库
func NewClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// WithTx 绑定事务
func (r *GormClientRepository) WithTx(tx *gorm.DB) *GormClientRepository {
	if tx == nil {
		return r
	}
	return &GormClientRepository{db: tx}
}

func (r *GormClientRepository) withProjects(query *gorm.DB) *gorm.DB {
	return query.Preload("Projects", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

// List 客户列表（含项目）
func (r *GormClientRepository) List(filter ClientListFilter) ([]models.Client, error) {
	var clients []models.Client
	query := r.db.Model(&models.Client{})
	if !filter.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"name"})
		query = query.Where(condition, repeatLikeArgs("%"+escapeLike(search)+"%", argCount)...)
	}
	if err := r.withProjects(query).Order("name ASC, id ASC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// GetByID 根据 ID 获取客户（含项目）
func (r *GormClientRepository) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := r.withProjects(r.db).First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// Create 创建客户
func (r *GormClientRepository) Create(client *models.Client) error {
	return r.db.Omit("Projects").Create(client).Error
}

// Update 更新客户基础字段
func (r *GormClientRepository) Update(client *models.Client) error {
	return r.db.Omit("Projects").Save(client).Error
}

// CreateProject 创建项目
func (r *GormClientRepository) CreateProject(project *models.Project) error {
	return r.db.Create(project).Error
}

// GetProject 获取指定客户下的项目
func (r *GormClientRepository) GetProject(clientID, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ? AND client_id = ?", projectID, clientID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// UpdateProject 更新项目
func (r *GormClientRepository) UpdateProject(project *models.Project) error {
	return r.db.Save(project).Error
}

// ListProjectsByIDs 批量获取项目
func (r *GormClientRepository) ListProjectsByIDs(ids []uint) ([]models.Project, error) {
	if len(ids) == 0 {
		return []models.Project{}, nil
	}
	var projects []models.Project
	if err := r.db.Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
