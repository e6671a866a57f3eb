package service

import (
	"strings"

	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/repository"
)

// ClientService 客户与项目服务
type ClientService struct {
	repo repository.ClientRepository
}

// NewClientService 创建客户服务
func NewClientService(repo repository.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

// CreateClientInput 创建客户输入
type CreateClientInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateProjectInput 创建项目输入
type CreateProjectInput struct {
	Name string `json:"name" binding:"required"`
}

// List 客户列表
func (s *ClientService) List(filter repository.ClientListFilter) ([]models.Client, error) {
	return s.repo.List(filter)
}

// Create 创建客户
func (s *ClientService) Create(input CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	client := &models.Client{Name: name, Projects: []models.Project{}}
	if err := s.repo.Create(client); err != nil {
		return nil, err
	}
	logger.Infow("client_created", "client_id", client.ID, "name", client.Name)
	return client, nil
}

// ToggleArchive 切换客户归档状态
func (s *ClientService) ToggleArchive(id uint) (*models.Client, error) {
	client, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	client.IsArchived = !client.IsArchived
	if err := s.repo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

// AddProject 为客户添加项目，初始状态为未完成
func (s *ClientService) AddProject(clientID uint, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	client, err := s.repo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	project := &models.Project{
		ClientID: clientID,
		Name:     name,
		Status:   constants.ProjectStatusIncomplete,
	}
	if err := s.repo.CreateProject(project); err != nil {
		return nil, err
	}
	logger.Infow("project_created", "client_id", clientID, "project_id", project.ID, "name", project.Name)
	return project, nil
}

// ToggleProjectArchive 切换项目归档状态
func (s *ClientService) ToggleProjectArchive(clientID, projectID uint) (*models.Project, error) {
	project, err := s.loadProject(clientID, projectID)
	if err != nil {
		return nil, err
	}
	project.IsArchived = !project.IsArchived
	if err := s.repo.UpdateProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// CycleProjectStatus 依次切换项目状态：未完成 -> 已完成 -> 已归档 -> 未完成
func (s *ClientService) CycleProjectStatus(clientID, projectID uint) (*models.Project, error) {
	project, err := s.loadProject(clientID, projectID)
	if err != nil {
		return nil, err
	}
	project.Status = nextProjectStatus(project.Status)
	project.IsArchived = project.Status == constants.ProjectStatusArchived
	if err := s.repo.UpdateProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ClientService) loadProject(clientID, projectID uint) (*models.Project, error) {
	project, err := s.repo.GetProject(clientID, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func nextProjectStatus(current string) string {
	switch current {
	case constants.ProjectStatusIncomplete:
		return constants.ProjectStatusComplete
	case constants.ProjectStatusComplete:
		return constants.ProjectStatusArchived
	default:
		return constants.ProjectStatusIncomplete
	}
}
