package models

import "github.com/shopspring/decimal"

// LineItem is one ordered service on a purchase order. The business id
// ("PST-" prefix) is the primary key; tracking records cascade with it.
type LineItem struct {
	ID               string           `gorm:"column:id;primaryKey"`
	OrderNumber      string           `gorm:"column:order_number;not null"`
	LineNumber       *int             `gorm:"column:line_number"`
	Family           string           `gorm:"column:family"`
	Description      string           `gorm:"column:description"`
	SiteCode         *string          `gorm:"column:site_code"`
	Supplier         *string          `gorm:"column:supplier"`
	OrderedQty       decimal.Decimal  `gorm:"column:ordered_qty;type:numeric(14,2);not null;default:0"`
	CatalogServiceID *int64           `gorm:"column:catalog_service_id"`
	CatalogService   *CatalogService  `gorm:"foreignKey:CatalogServiceID"`
	TrackingRecords  []TrackingRecord `gorm:"foreignKey:LineItemID;constraint:OnDelete:CASCADE"`
}
