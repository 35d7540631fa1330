package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ali-desu/Samsic-projet-stage/internal/files"
)

// LineItemInput describes one ordered service on a create/update request.
type LineItemInput struct {
	ID               *string
	LineNumber       int
	Family           string
	Description      string
	OrderedQty       decimal.Decimal
	CatalogServiceID int64
	SiteCode         *string
	Supplier         *string
	ZoneID           *int64
	Remark           *string
}

// OrderInput carries the full payload for creating or replacing an order.
type OrderInput struct {
	Number               *string
	ProjectDivision      string
	ProjectCode          string
	Description          string
	IssueDate            *time.Time
	BillingProjectNumber string
	ReceptionReportNum   string
	FromWorkOrder        bool
	WorkOrderNumber      *string
	ZoneID               *int64
	SiteCode             *string
	GoDate               *time.Time
	BackOfficeID         int64
	LineItems            []LineItemInput
	ProofFile            *files.Input
}

// ServiceSummary is the distinct catalog view for one order.
type ServiceSummary struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	FamilyName  *string `json:"family_name,omitempty"`
}
