package service

import (
	"fmt"
	"strings"

	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/repository"

	"github.com/shopspring/decimal"
)

// FeeService 费用服务（内置费用 + 自定义费用）
type FeeService struct {
	repo     repository.FeeRepository
	defaults []Fee
}

// NewFeeService 创建费用服务
func NewFeeService(repo repository.FeeRepository, cfg config.FeesConfig) *FeeService {
	return &FeeService{repo: repo, defaults: buildDefaultFees(cfg.Defaults)}
}

// FeeView 费用列表项
type FeeView struct {
	ID               uint        `json:"id,omitempty"`
	Name             string      `json:"name"`
	Kind             string      `json:"kind"`
	Value            models.Rate `json:"value"`
	BasedOnRemainder bool        `json:"based_on_remainder"`
	Source           string      `json:"source"`
}

// CreateFeeInput 创建自定义费用输入
type CreateFeeInput struct {
	Name  string          `json:"name" binding:"required"`
	Kind  string          `json:"kind" binding:"required"`
	Value decimal.Decimal `json:"value"`
}

// DefaultFees 返回内置费用（按配置顺序）
func (s *FeeService) DefaultFees() []Fee {
	result := make([]Fee, len(s.defaults))
	copy(result, s.defaults)
	return result
}

// List 返回内置费用与自定义费用
func (s *FeeService) List() ([]FeeView, error) {
	custom, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	views := make([]FeeView, 0, len(s.defaults)+len(custom))
	for _, fee := range s.defaults {
		views = append(views, FeeView{
			Name:             fee.Name,
			Kind:             fee.Kind,
			Value:            models.NewRateFromDecimal(fee.Value),
			BasedOnRemainder: fee.BasedOnRemainder,
			Source:           constants.FeeSourceDefault,
		})
	}
	for _, fee := range custom {
		views = append(views, FeeView{
			ID:     fee.ID,
			Name:   fee.Name,
			Kind:   fee.Kind,
			Value:  fee.Value,
			Source: constants.FeeSourceCustom,
		})
	}
	return views, nil
}

// CreateCustom 创建自定义费用，名称不可与内置或已有费用重复（忽略大小写）
func (s *FeeService) CreateCustom(input CreateFeeInput) (*models.CustomFee, error) {
	name := strings.TrimSpace(input.Name)
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if name == "" {
		return nil, ErrFeeNameRequired
	}
	if !isValidFeeKind(kind) {
		return nil, fmt.Errorf("%w: %s", ErrFeeKindInvalid, input.Kind)
	}
	if input.Value.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrFeeValueNegative, name)
	}
	for _, fee := range s.defaults {
		if strings.EqualFold(fee.Name, name) {
			return nil, fmt.Errorf("%w: %s", ErrFeeNameDuplicate, name)
		}
	}
	existing, err := s.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrFeeNameDuplicate, name)
	}

	fee := &models.CustomFee{
		Name:  name,
		Kind:  kind,
		Value: models.NewRateFromDecimal(input.Value),
	}
	if err := s.repo.Create(fee); err != nil {
		return nil, err
	}
	logger.Infow("custom_fee_created", "fee_id", fee.ID, "name", fee.Name, "kind", fee.Kind)
	return fee, nil
}

// DeleteCustom 删除自定义费用，已生成的结算单保留费用快照
func (s *FeeService) DeleteCustom(id uint) error {
	fee, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if fee == nil {
		return ErrFeeNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	logger.Infow("custom_fee_deleted", "fee_id", id, "name", fee.Name)
	return nil
}

func buildDefaultFees(items []config.FeeDefaultConfig) []Fee {
	fees := make([]Fee, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		kind := strings.ToLower(strings.TrimSpace(item.Kind))
		value, err := decimal.NewFromString(strings.TrimSpace(item.Value))
		if name == "" || !isValidFeeKind(kind) || err != nil || value.IsNegative() {
			logger.Warnw("fee_default_invalid", "name", item.Name, "kind", item.Kind, "value", item.Value)
			continue
		}
		fees = append(fees, Fee{
			Name:             name,
			Kind:             kind,
			Value:            value,
			BasedOnRemainder: item.BasedOnRemainder,
		})
	}
	return fees
}
