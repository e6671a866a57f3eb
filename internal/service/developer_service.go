package service

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/repository"
)

// DeveloperService 开发者服务
type DeveloperService struct {
	repo repository.DeveloperRepository
}

// NewDeveloperService 创建开发者服务
func NewDeveloperService(repo repository.DeveloperRepository) *DeveloperService {
	return &DeveloperService{repo: repo}
}

// CreateDeveloperInput 创建开发者输入
type CreateDeveloperInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// List 开发者列表
func (s *DeveloperService) List(filter repository.DeveloperListFilter) ([]models.Developer, error) {
	return s.repo.List(filter)
}

// Create 创建开发者
func (s *DeveloperService) Create(input CreateDeveloperInput) (*models.Developer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.TrimSpace(input.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEmailInvalid, email)
		}
	}
	developer := &models.Developer{Name: name, Email: email}
	if err := s.repo.Create(developer); err != nil {
		return nil, err
	}
	logger.Infow("developer_created", "developer_id", developer.ID, "name", developer.Name)
	return developer, nil
}

// ToggleArchive 切换开发者归档状态
func (s *DeveloperService) ToggleArchive(id uint) (*models.Developer, error) {
	developer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if developer == nil {
		return nil, ErrDeveloperNotFound
	}
	developer.IsArchived = !developer.IsArchived
	if err := s.repo.Update(developer); err != nil {
		return nil, err
	}
	return developer, nil
}
