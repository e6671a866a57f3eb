package models

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// rateScale 费率与固定值快照保留的小数位
const rateScale = 4

// Rate 费率或费用值（保留 4 位小数），序列化为 JSON 数字
type Rate struct {
	decimal.Decimal
}

// NewRateFromDecimal 从 decimal 创建费率
func NewRateFromDecimal(value decimal.Decimal) Rate {
	return Rate{Decimal: value.Round(rateScale)}
}

// MarshalJSON 输出 JSON 数字
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.Decimal.Round(rateScale).String()), nil
}

// UnmarshalJSON 解析费率（字符串或数字）
func (r *Rate) UnmarshalJSON(b []byte) error {
	d, ok, err := parseDecimalJSON(b)
	if err != nil || !ok {
		return err
	}
	r.Decimal = d.Round(rateScale)
	return nil
}

// Value 用于数据库写入
func (r Rate) Value() (driver.Value, error) {
	return r.Decimal.Round(rateScale).Value()
}

// Scan 用于数据库读取
func (r *Rate) Scan(value interface{}) error {
	return r.Decimal.Scan(value)
}
