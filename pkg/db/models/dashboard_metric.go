package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardMetric is a daily snapshot of the family rollup per back
// office. At most one row exists per (back office, family, day).
type DashboardMetric struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	BackOfficeID    int64           `gorm:"column:back_office_id;not null"`
	Family          string          `gorm:"column:family;not null"`
	CalculationDate time.Time       `gorm:"column:calculation_date;type:date;not null"`
	OrderedAmount   decimal.Decimal `gorm:"column:ordered_amount;type:numeric(16,2);not null;default:0"`
	FieldClosed     decimal.Decimal `gorm:"column:field_closed;type:numeric(16,2);not null;default:0"`
	RealizationRate decimal.Decimal `gorm:"column:realization_rate;type:numeric(8,4);not null;default:0"`
	InvoicedAmount  decimal.Decimal `gorm:"column:invoiced_amount;type:numeric(16,2);not null;default:0"`
	SystemDeposited decimal.Decimal `gorm:"column:system_deposited;type:numeric(16,2);not null;default:0"`
	SystemToDeposit decimal.Decimal `gorm:"column:system_to_deposit;type:numeric(16,2);not null;default:0"`
}
