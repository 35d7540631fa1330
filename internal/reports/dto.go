package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSummary rolls a purchase order's line items up into monetary
// totals bucketed by pipeline stage.
type OrderSummary struct {
	OrderNumber     string          `json:"order_number"`
	ProjectDivision string          `json:"project_division"`
	ProjectCode     string          `json:"project_code"`
	IssueDate       *time.Time      `json:"issue_date,omitempty"`
	Family          string          `json:"family"`
	Description     string          `json:"description"`
	OrderedValue    decimal.Decimal `json:"ordered_value"`
	RealizedValue   decimal.Decimal `json:"realized_value"`
	TechValue       decimal.Decimal `json:"tech_value"`
	SystemValue     decimal.Decimal `json:"system_value"`
	DepositedValue  decimal.Decimal `json:"deposited_value"`
	ToDepositValue  decimal.Decimal `json:"to_deposit_value"`
	CompletionRatio decimal.Decimal `json:"completion_ratio"`
}

// LineDetail is the per-line-item report row. Quantities and values are
// summed over the line's tracking records.
type LineDetail struct {
	OrderNumber        string          `json:"order_number"`
	ProjectDivision    string          `json:"project_division"`
	ProjectCode        string          `json:"project_code"`
	LineItemID         string          `json:"line_item_id"`
	LineNumber         *int            `json:"line_number,omitempty"`
	IssueDate          *time.Time      `json:"issue_date,omitempty"`
	OrderDescription   string          `json:"order_description"`
	ServiceDescription string          `json:"service_description"`
	Family             string          `json:"family"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	OrderedQty         decimal.Decimal `json:"ordered_qty"`
	RealizedQty        decimal.Decimal `json:"realized_qty"`
	InProgressQty      decimal.Decimal `json:"in_progress_qty"`
	RemainingQty       decimal.Decimal `json:"remaining_qty"`
	OrderedValue       decimal.Decimal `json:"ordered_value"`
	RealizedValue      decimal.Decimal `json:"realized_value"`
	InProgressValue    decimal.Decimal `json:"in_progress_value"`
	RemainingValue     decimal.Decimal `json:"remaining_value"`
	TechValue          decimal.Decimal `json:"tech_value"`
	SystemValue        decimal.Decimal `json:"system_value"`
	DepositedValue     decimal.Decimal `json:"deposited_value"`
	ToDepositValue     decimal.Decimal `json:"to_deposit_value"`
}

// FamilyRollup is the live dashboard aggregate for one service family.
type FamilyRollup struct {
	Family          string          `json:"family"`
	OrderedAmount   decimal.Decimal `json:"ordered_amount"`
	FieldClosed     decimal.Decimal `json:"field_closed"`
	RealizationRate decimal.Decimal `json:"realization_rate"`
	InvoicedAmount  decimal.Decimal `json:"invoiced_amount"`
	SystemDeposited decimal.Decimal `json:"system_deposited"`
	SystemToDeposit decimal.Decimal `json:"system_to_deposit"`
	TechReceived    decimal.Decimal `json:"tech_received"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	WorksInProgress decimal.Decimal `json:"works_in_progress"`
}
