package models

import "time"

// WorkOrder is a field-issued order ("OT-" prefix) that predates its
// purchase order. Linking merges its lines into an order and deletes it.
type WorkOrder struct {
	Number          string          `gorm:"column:number;primaryKey"`
	ProjectDivision string          `gorm:"column:project_division"`
	ProjectCode     string          `gorm:"column:project_code"`
	ZoneID          *int64          `gorm:"column:zone_id"`
	Zone            *Zone           `gorm:"foreignKey:ZoneID"`
	SiteID          *int64          `gorm:"column:site_id"`
	Site            *Site           `gorm:"foreignKey:SiteID"`
	GoDate          *time.Time      `gorm:"column:go_date;type:date"`
	BackOfficeID    *int64          `gorm:"column:back_office_id"`
	BackOffice      *BackOffice     `gorm:"foreignKey:BackOfficeID"`
	Lines           []WorkOrderLine `gorm:"foreignKey:WorkOrderNumber;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
