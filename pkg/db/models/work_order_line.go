package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderLine mirrors the tracking fields a line will carry once its
// work order is linked to a purchase order.
type WorkOrderLine struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	WorkOrderNumber  string          `gorm:"column:work_order_number;not null"`
	LineNumber       *int            `gorm:"column:line_number"`
	Family           string          `gorm:"column:family"`
	CatalogServiceID *int64          `gorm:"column:catalog_service_id"`
	CatalogService   *CatalogService `gorm:"foreignKey:CatalogServiceID"`
	CoordinatorID    *int64          `gorm:"column:coordinator_id"`
	Coordinator      *Coordinator    `gorm:"foreignKey:CoordinatorID"`

	ValidatedQty *int    `gorm:"column:validated_qty"`
	Supplier     *string `gorm:"column:supplier"`

	RealizedQty   decimal.Decimal `gorm:"column:realized_qty;type:numeric(14,2);not null;default:0"`
	InProgressQty decimal.Decimal `gorm:"column:in_progress_qty;type:numeric(14,2);not null;default:0"`

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
	ProofFileID        *int64  `gorm:"column:proof_file_id"`
}
