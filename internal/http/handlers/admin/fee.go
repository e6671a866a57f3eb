package admin

import (
	"github.com/dealsplit/internal/http/response"
	"github.com/dealsplit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateFeeRequest 创建自定义费用请求
type CreateFeeRequest struct {
	Name  string          `json:"name" binding:"required"`
	Kind  string          `json:"kind" binding:"required"`
	Value decimal.Decimal `json:"value"`
}

// GetFees 费用列表（内置 + 自定义）
func (h *Handler) GetFees(c *gin.Context) {
	fees, err := h.FeeService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.fee_fetch_failed", err)
		return
	}
	response.Success(c, fees)
}

// CreateFee 创建自定义费用
func (h *Handler) CreateFee(c *gin.Context) {
	var req CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	fee, err := h.FeeService.CreateCustom(service.CreateFeeInput{
		Name:  req.Name,
		Kind:  req.Kind,
		Value: req.Value,
	})
	if err != nil {
		respondServiceError(c, err, "error.fee_not_found", "error.fee_save_failed")
		return
	}
	response.Success(c, fee)
}

// DeleteFee 删除自定义费用
func (h *Handler) DeleteFee(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.FeeService.DeleteCustom(id); err != nil {
		respondServiceError(c, err, "error.fee_not_found", "error.fee_save_failed")
		return
	}
	response.Success(c, nil)
}
