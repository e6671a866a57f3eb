package service

import (
	"errors"
	"fmt"
)

// 通用错误，具体错误均包装其一，调用方用 errors.Is 判断类别
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// 费用相关错误
var (
	ErrFeeNameRequired  = fmt.Errorf("%w: fee name is required", ErrValidation)
	ErrFeeNameDuplicate = fmt.Errorf("%w: fee name already exists", ErrValidation)
	ErrFeeKindInvalid   = fmt.Errorf("%w: fee kind is invalid", ErrValidation)
	ErrFeeValueNegative = fmt.Errorf("%w: fee value must not be negative", ErrValidation)
	ErrFeeNotFound      = fmt.Errorf("fee %w", ErrNotFound)
)

// 结算单相关错误
var (
	ErrLineItemsRequired   = fmt.Errorf("%w: at least one line item is required", ErrValidation)
	ErrLineItemInvalid     = fmt.Errorf("%w: line item is invalid", ErrValidation)
	ErrAmountNegative      = fmt.Errorf("%w: amount must not be negative", ErrValidation)
	ErrPaymentFeeMissing   = fmt.Errorf("%w: payout has no payment fee entry", ErrValidation)
	ErrPayoutStatusInvalid = fmt.Errorf("%w: payout status is invalid", ErrValidation)
	ErrPayoutNotFound      = fmt.Errorf("payout %w", ErrNotFound)
	ErrPayoutFetchFailed   = errors.New("payout fetch failed")
	ErrPayoutUpdateFailed  = errors.New("payout update failed")
)

// 开发者与客户相关错误
var (
	ErrNameRequired       = fmt.Errorf("%w: name is required", ErrValidation)
	ErrEmailInvalid       = fmt.Errorf("%w: email is invalid", ErrValidation)
	ErrProjectClientMatch = fmt.Errorf("%w: project does not belong to client", ErrValidation)
	ErrDeveloperNotFound  = fmt.Errorf("developer %w", ErrNotFound)
	ErrClientNotFound     = fmt.Errorf("client %w", ErrNotFound)
	ErrProjectNotFound    = fmt.Errorf("project %w", ErrNotFound)
)

// 仪表盘相关错误
var (
	ErrDashboardRangeInvalid = fmt.Errorf("%w: dashboard range is invalid", ErrValidation)
)
