package admin

import (
	"strings"

	"github.com/dealsplit/internal/http/response"
	"github.com/dealsplit/internal/repository"
	"github.com/dealsplit/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateDeveloperRequest 创建开发者请求
type CreateDeveloperRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// GetDevelopers 开发者列表
func (h *Handler) GetDevelopers(c *gin.Context) {
	includeArchived, err := parseQueryBool(c, "include_archived")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	developers, err := h.DeveloperService.List(repository.DeveloperListFilter{
		IncludeArchived: includeArchived,
		Search:          strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.developer_fetch_failed", err)
		return
	}
	response.Success(c, developers)
}

// CreateDeveloper 创建开发者
func (h *Handler) CreateDeveloper(c *gin.Context) {
	var req CreateDeveloperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	developer, err := h.DeveloperService.Create(service.CreateDeveloperInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondServiceError(c, err, "error.developer_not_found", "error.developer_save_failed")
		return
	}
	response.Success(c, developer)
}

// ToggleDeveloperArchive 切换开发者归档状态
func (h *Handler) ToggleDeveloperArchive(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	developer, err := h.DeveloperService.ToggleArchive(id)
	if err != nil {
		respondServiceError(c, err, "error.developer_not_found", "error.developer_save_failed")
		return
	}
	response.Success(c, developer)
}
