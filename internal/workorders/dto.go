package workorders

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineInput is one work-order line on a create/update request. Every field
// except the catalog service (required on create) is optional; updates only
// apply non-nil values.
type LineInput struct {
	ID               *int64
	LineNumber       *int
	Family           *string
	CatalogServiceID *int64
	CoordinatorID    *int64
	ValidatedQty     *int
	Supplier         *string

	RealizedQty *decimal.Decimal

	PlannedDate     *time.Time
	GoDate          *time.Time
	StartDate       *time.Time
	EndDate         *time.Time
	RealizationDate *time.Time

	RealizationStatus     *string
	TechReceptionDate     *time.Time
	TechReceptionStatus   *string
	PFDate                *time.Time
	SystemReceptionDate   *time.Time
	SystemReceptionStatus *string

	Remark             *string
	ReceptionDelayDays *int
}

// CreateInput carries the full payload for creating a work order.
type CreateInput struct {
	Number          string
	ProjectDivision string
	ProjectCode     string
	ZoneID          *int64
	SiteCode        *string
	GoDate          *time.Time
	BackOfficeID    *int64
	Lines           []LineInput
}

// UpdateInput is a sparse header update plus the replacement line list.
type UpdateInput struct {
	ProjectDivision *string
	ProjectCode     *string
	ZoneID          *int64
	SiteCode        *string
	GoDate          *time.Time
	BackOfficeID    *int64
	Lines           []LineInput
}

// BulkUpdate pairs a work order number with its update payload.
type BulkUpdate struct {
	Number string
	Input  UpdateInput
}

// BulkResult reports one bulk item outcome.
type BulkResult struct {
	Number  string
	Updated bool
	Err     error
}

// Metrics is the monetary rollup over a back office's work-order lines.
type Metrics struct {
	TotalCost    decimal.Decimal `json:"total_cost"`
	RealizedCost decimal.Decimal `json:"realized_cost"`
	ReceivedCost decimal.Decimal `json:"received_cost"`
}
