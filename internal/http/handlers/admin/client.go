package admin

import (
	"strings"

	"github.com/dealsplit/internal/http/response"
	"github.com/dealsplit/internal/repository"
	"github.com/dealsplit/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetClients 客户列表（含项目）
func (h *Handler) GetClients(c *gin.Context) {
	includeArchived, err := parseQueryBool(c, "include_archived")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	clients, err := h.ClientService.List(repository.ClientListFilter{
		IncludeArchived: includeArchived,
		Search:          strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.client_fetch_failed", err)
		return
	}
	response.Success(c, clients)
}

// CreateClient 创建客户
func (h *Handler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	client, err := h.ClientService.Create(service.CreateClientInput{Name: req.Name})
	if err != nil {
		respondServiceError(c, err, "error.client_not_found", "error.client_save_failed")
		return
	}
	response.Success(c, client)
}

// ToggleClientArchive 切换客户归档状态
func (h *Handler) ToggleClientArchive(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	client, err := h.ClientService.ToggleArchive(id)
	if err != nil {
		respondServiceError(c, err, "error.client_not_found", "error.client_save_failed")
		return
	}
	response.Success(c, client)
}

// CreateProject 为客户添加项目
func (h *Handler) CreateProject(c *gin.Context) {
	clientID, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	project, err := h.ClientService.AddProject(clientID, service.CreateProjectInput{Name: req.Name})
	if err != nil {
		respondServiceError(c, err, "error.client_not_found", "error.project_save_failed")
		return
	}
	response.Success(c, project)
}

// ToggleProjectArchive 切换项目归档状态
func (h *Handler) ToggleProjectArchive(c *gin.Context) {
	clientID, projectID, ok := parseProjectPath(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	project, err := h.ClientService.ToggleProjectArchive(clientID, projectID)
	if err != nil {
		respondServiceError(c, err, "error.project_not_found", "error.project_save_failed")
		return
	}
	response.Success(c, project)
}

// CycleProjectStatus 切换项目状态
func (h *Handler) CycleProjectStatus(c *gin.Context) {
	clientID, projectID, ok := parseProjectPath(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	project, err := h.ClientService.CycleProjectStatus(clientID, projectID)
	if err != nil {
		respondServiceError(c, err, "error.project_not_found", "error.project_save_failed")
		return
	}
	response.Success(c, project)
}

func parseProjectPath(c *gin.Context) (uint, uint, bool) {
	clientID, ok := parsePathUint(c, "id")
	if !ok {
		return 0, 0, false
	}
	projectID, ok := parsePathUint(c, "project_id")
	if !ok {
		return 0, 0, false
	}
	return clientID, projectID, true
}
