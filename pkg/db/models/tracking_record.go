package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackingRecord follows one slice of a line item through realization,
// technical reception and system reception. Quantities are decimals so
// partial deliveries aggregate without drift.
type TrackingRecord struct {
	ID            int64        `gorm:"column:id;primaryKey;autoIncrement"`
	LineItemID    string       `gorm:"column:line_item_id;not null"`
	SiteID        *int64       `gorm:"column:site_id"`
	Site          *Site        `gorm:"foreignKey:SiteID"`
	ZoneID        *int64       `gorm:"column:zone_id"`
	Zone          *Zone        `gorm:"foreignKey:ZoneID"`
	CoordinatorID *int64       `gorm:"column:coordinator_id"`
	Coordinator   *Coordinator `gorm:"foreignKey:CoordinatorID"`

	ValidatedQty *int    `gorm:"column:validated_qty"`
	Supplier     *string `gorm:"column:supplier"`

	RealizedQty   decimal.Decimal `gorm:"column:realized_qty;type:numeric(14,2);not null;default:0"`
	InProgressQty decimal.Decimal `gorm:"column:in_progress_qty;type:numeric(14,2);not null;default:0"`
	TechQty       decimal.Decimal `gorm:"column:tech_qty;type:numeric(14,2);not null;default:0"`
	SystemQty     decimal.Decimal `gorm:"column:system_qty;type:numeric(14,2);not null;default:0"`
	DepositedQty  decimal.Decimal `gorm:"column:deposited_qty;type:numeric(14,2);not null;default:0"`
	ToDepositQty  decimal.Decimal `gorm:"column:to_deposit_qty;type:numeric(14,2);not null;default:0"`

	PlannedDate *time.Time `gorm:"column:planned_date"`
	GoDate      *time.Time `gorm:"column:go_date;type:date"`
	StartDate   *time.Time `gorm:"column:start_date"`
	EndDate     *time.Time `gorm:"column:end_date"`

	RealizationDate   *time.Time `gorm:"column:realization_date"`
	RealizationStatus *string    `gorm:"column:realization_status"`

	TechReceptionDate   *time.Time `gorm:"column:tech_reception_date"`
	TechReceptionStatus *string    `gorm:"column:tech_reception_status"`

	PFDate                *time.Time `gorm:"column:pf_date"`
	SystemReceptionDate   *time.Time `gorm:"column:system_reception_date"`
	SystemReceptionStatus *string    `gorm:"column:system_reception_status"`

	Remark             *string `gorm:"column:remark"`
	ReceptionDelayDays *int    `gorm:"column:reception_delay_days"`

	ProofFileID *int64       `gorm:"column:proof_file_id"`
	Alerts      []DelayAlert `gorm:"foreignKey:TrackingRecordID;constraint:OnDelete:CASCADE"`
}
