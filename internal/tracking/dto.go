package tracking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ali-desu/Samsic-projet-stage/internal/files"
)

// Patch is a sparse update for one tracking record. Only non-nil fields
// are applied; system reception date stays scheduler/linking territory and
// is deliberately absent.
type Patch struct {
	RealizedQty   *decimal.Decimal
	InProgressQty *decimal.Decimal
	TechQty       *decimal.Decimal
	SystemQty     *decimal.Decimal
	DepositedQty  *decimal.Decimal
	ToDepositQty  *decimal.Decimal

	Supplier *string

	PlannedDate       *time.Time
	GoDate            *time.Time
	StartDate         *time.Time
	EndDate           *time.Time
	RealizationDate   *time.Time
	TechReceptionDate *time.Time
	PFDate            *time.Time

	RealizationStatus     *string
	TechReceptionStatus   *string
	SystemReceptionStatus *string

	Remark             *string
	ReceptionDelayDays *int
}

// BulkUpdate pairs a record id with its patch for the bulk endpoint.
type BulkUpdate struct {
	ID    int64
	Patch Patch
}

// BulkResult reports one bulk item outcome.
type BulkResult struct {
	ID      int64
	Updated bool
	Err     error
}

// CreateRecordInput is one manual tracking record for an order line item.
type CreateRecordInput struct {
	LineItemID       string
	CatalogServiceID int64
	ZoneID           int64
	SiteID           int64
	ValidatedQty     *int
	Supplier         *string
	Remark           *string
}

// CreateInput requests manual tracking records for an existing order.
type CreateInput struct {
	OrderNumber string
	Records     []CreateRecordInput
}

// ProofInput wraps an uploaded technical reception document.
type ProofInput = files.Input
