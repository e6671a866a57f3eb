package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/dealsplit/internal/http/handlers/shared"
	"github.com/dealsplit/internal/http/response"
	"github.com/dealsplit/internal/repository"
	"github.com/dealsplit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PayoutLineItemRequest 结算单项目明细
type PayoutLineItemRequest struct {
	ClientID  uint            `json:"client_id"`
	ProjectID uint            `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// PayoutFeeRequest 结算单费用
type PayoutFeeRequest struct {
	Name             string          `json:"name"`
	Kind             string          `json:"kind"`
	Value            decimal.Decimal `json:"value"`
	BasedOnRemainder bool            `json:"based_on_remainder"`
}

// PreviewPayoutRequest 结算预览请求，省略 fees 时使用内置费用
type PreviewPayoutRequest struct {
	LineItems []PayoutLineItemRequest `json:"line_items"`
	Fees      []PayoutFeeRequest      `json:"fees"`
}

// CreatePayoutRequest 创建结算单请求，省略 fees 时使用内置费用
type CreatePayoutRequest struct {
	DeveloperID uint                    `json:"developer_id" binding:"required"`
	LineItems   []PayoutLineItemRequest `json:"line_items"`
	Fees        []PayoutFeeRequest      `json:"fees"`
}

// UpdatePayoutStatusRequest 结算单状态流转请求
type UpdatePayoutStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CorrectPaymentFeeRequest 支付手续费修正请求，amount 必填
type CorrectPaymentFeeRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

var errPaymentFeeAmountRequired = errors.New("amount is required")

// PreviewPayout 预览费用计算结果
func (h *Handler) PreviewPayout(c *gin.Context) {
	var req PreviewPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	calc, err := h.PayoutService.Preview(service.PreviewPayoutInput{
		LineItems: toLineItemInputs(req.LineItems),
		Fees:      toFeeInputs(req.Fees),
	})
	if err != nil {
		respondServiceError(c, err, "error.payout_not_found", "error.payout_fetch_failed")
		return
	}
	response.Success(c, calc)
}

// CreatePayout 创建结算单
func (h *Handler) CreatePayout(c *gin.Context) {
	var req CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	payout, err := h.PayoutService.Create(c.Request.Context(), service.CreatePayoutInput{
		DeveloperID: req.DeveloperID,
		LineItems:   toLineItemInputs(req.LineItems),
		Fees:        toFeeInputs(req.Fees),
	})
	if err != nil {
		respondServiceError(c, err, "error.payout_not_found", "error.payout_save_failed")
		return
	}
	response.Success(c, payout)
}

// GetPayouts 结算单列表
func (h *Handler) GetPayouts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter, err := buildPayoutFilter(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	filter.Page = page
	filter.PageSize = pageSize

	payouts, total, err := h.PayoutService.List(filter)
	if err != nil {
		respondServiceError(c, err, "error.payout_not_found", "error.payout_fetch_failed")
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, payouts, pagination)
}

// GetPayoutBoard 结算单看板
func (h *Handler) GetPayoutBoard(c *gin.Context) {
	columns, err := h.PayoutService.Board(strings.TrimSpace(c.Query("search")))
	if err != nil {
		respondError(c, response.CodeInternal, "error.payout_fetch_failed", err)
		return
	}
	response.Success(c, columns)
}

// ExportPayouts 导出结算单表格
func (h *Handler) ExportPayouts(c *gin.Context) {
	filter, err := buildPayoutFilter(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	buf, err := h.PayoutService.ExportXLSX(filter)
	if err != nil {
		respondServiceError(c, err, "error.payout_not_found", "error.payout_export_failed")
		return
	}
	filename := fmt.Sprintf("payouts-%s.xlsx", time.Now().Format("20060102150405"))
	response.Attachment(c, filename, xlsxContentType, buf.Bytes())
}

// GetPayout 结算单详情
func (h *Handler) GetPayout(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	payout, err := h.PayoutService.Get(id)
	if err != nil {
		respondServiceError(c, err, "error.payout_not_found", "error.payout_fetch_failed")
		return
	}
	response.Success(c, payout)
}

// DeletePayout 删除结算单
func (h *Handler) DeletePayout(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.PayoutService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "error.payout_not_found", "error.payout_save_failed")
		return
	}
	response.Success(c, nil)
}

// UpdatePayoutStatus 结算单状态流转
func (h *Handler) UpdatePayoutStatus(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req UpdatePayoutStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	payout, err := h.PayoutService.UpdateStatus(c.Request.Context(), id, strings.TrimSpace(req.Status))
	if err != nil {
		respondServiceError(c, err, "error.payout_not_found", "error.payout_save_failed")
		return
	}
	response.Success(c, payout)
}

// CorrectPayoutPaymentFee 修正支付手续费
func (h *Handler) CorrectPayoutPaymentFee(c *gin.Context) {
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req CorrectPaymentFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Amount == nil {
		handlershared.RespondErrorWithDetail(c, response.CodeBadRequest, "error.validation_failed", errPaymentFeeAmountRequired)
		return
	}
	payout, err := h.PayoutService.CorrectPaymentFee(c.Request.Context(), id, *req.Amount)
	if err != nil {
		respondServiceError(c, err, "error.payout_not_found", "error.payout_save_failed")
		return
	}
	response.Success(c, payout)
}

func buildPayoutFilter(c *gin.Context) (repository.PayoutListFilter, error) {
	developerID, err := parseQueryUint(c, "developer_id")
	if err != nil {
		return repository.PayoutListFilter{}, err
	}
	createdFrom, err := parseTimeNullable(c.Query("created_from"), false)
	if err != nil {
		return repository.PayoutListFilter{}, err
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"), true)
	if err != nil {
		return repository.PayoutListFilter{}, err
	}
	return repository.PayoutListFilter{
		Search:      strings.TrimSpace(c.Query("search")),
		Status:      strings.TrimSpace(c.Query("status")),
		DeveloperID: developerID,
		Sort:        strings.TrimSpace(c.Query("sort")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	}, nil
}

func toLineItemInputs(items []PayoutLineItemRequest) []service.PayoutLineItemInput {
	result := make([]service.PayoutLineItemInput, 0, len(items))
	for _, item := range items {
		result = append(result, service.PayoutLineItemInput{
			ClientID:  item.ClientID,
			ProjectID: item.ProjectID,
			Amount:    item.Amount,
		})
	}
	return result
}

// toFeeInputs 保留 nil 与空切片的区别：nil 表示使用内置费用
func toFeeInputs(fees []PayoutFeeRequest) []service.Fee {
	if fees == nil {
		return nil
	}
	result := make([]service.Fee, 0, len(fees))
	for _, fee := range fees {
		result = append(result, service.Fee{
			Name:             fee.Name,
			Kind:             fee.Kind,
			Value:            fee.Value,
			BasedOnRemainder: fee.BasedOnRemainder,
		})
	}
	return result
}
