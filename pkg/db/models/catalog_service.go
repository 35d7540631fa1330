package models

import "github.com/shopspring/decimal"

// CatalogService is a priced service from the procurement catalog. Line
// items reference it for unit pricing and family attribution.
type CatalogService struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	FamilyID        *int64          `gorm:"column:family_id"`
	Family          *Family         `gorm:"foreignKey:FamilyID"`
	Reference       string          `gorm:"column:reference;not null"`
	Description     string          `gorm:"column:description"`
	Unit            string          `gorm:"column:unit"`
	Type            string          `gorm:"column:type"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(14,2);not null;default:0"`
	Remark          string          `gorm:"column:remark"`
	TechnicalModel  string          `gorm:"column:technical_model"`
	MaterialType    string          `gorm:"column:material_type"`
	Specification   string          `gorm:"column:specification"`
	TechnicalFamily string          `gorm:"column:technical_family"`
}
