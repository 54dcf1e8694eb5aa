package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money 统一金额类型（保留 2 位小数）
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 从 decimal 创建金额
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// NewMoneyFromInt 从整数创建金额
func NewMoneyFromInt(amount int64) Money {
	return Money{Decimal: decimal.NewFromInt(amount)}
}

// MarshalJSON 统一输出 2 位小数的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.Round(2).StringFixed(2))
}

// UnmarshalJSON 解析金额（字符串或数字）
func (m *Money) UnmarshalJSON(b []byte) error {
	d, err := unmarshalDecimal(b)
	if err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Value 用于数据库写入
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).Value()
}

// Scan 用于数据库读取
func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(2)
	return nil
}

// String 返回 2 位小数格式
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}

// Quantity 统一数量类型（保留 3 位小数，支持按重量/面积的分数数量）
type Quantity struct {
	decimal.Decimal
}

// NewQuantityFromDecimal 从 decimal 创建数量
func NewQuantityFromDecimal(amount decimal.Decimal) Quantity {
	return Quantity{Decimal: amount.Round(3)}
}

// NewQuantityFromInt 从整数创建数量
func NewQuantityFromInt(amount int64) Quantity {
	return Quantity{Decimal: decimal.NewFromInt(amount)}
}

// MarshalJSON 统一输出 3 位小数的字符串
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Decimal.Round(3).StringFixed(3))
}

// UnmarshalJSON 解析数量（字符串或数字）
func (q *Quantity) UnmarshalJSON(b []byte) error {
	d, err := unmarshalDecimal(b)
	if err != nil {
		return err
	}
	q.Decimal = d.Round(3)
	return nil
}

// Value 用于数据库写入
func (q Quantity) Value() (driver.Value, error) {
	return q.Decimal.Round(3).Value()
}

// Scan 用于数据库读取
func (q *Quantity) Scan(value interface{}) error {
	if err := q.Decimal.Scan(value); err != nil {
		return err
	}
	q.Decimal = q.Decimal.Round(3)
	return nil
}

// String 返回 3 位小数格式
func (q Quantity) String() string {
	return q.Decimal.Round(3).StringFixed(3)
}

func unmarshalDecimal(b []byte) (decimal.Decimal, error) {
	if len(b) == 0 {
		return decimal.Zero, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(f), nil
}
