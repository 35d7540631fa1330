package models

import "time"

// PurchaseOrder is the root procurement document. The business number
// ("BC-" prefix) is the primary key; line items cascade with the order.
type PurchaseOrder struct {
	Number               string      `gorm:"column:number;primaryKey"`
	ProjectDivision      string      `gorm:"column:project_division"`
	ProjectCode          string      `gorm:"column:project_code"`
	Description          string      `gorm:"column:description"`
	IssueDate            *time.Time  `gorm:"column:issue_date;type:date"`
	BillingProjectNumber string      `gorm:"column:billing_project_number"`
	ReceptionReportNum   string      `gorm:"column:reception_report_num"`
	FromWorkOrder        bool        `gorm:"column:from_work_order;not null;default:false"`
	WorkOrderNumber      *string     `gorm:"column:work_order_number"`
	BackOfficeID         *int64      `gorm:"column:back_office_id"`
	BackOffice           *BackOffice `gorm:"foreignKey:BackOfficeID"`
	LineItems            []LineItem  `gorm:"foreignKey:OrderNumber;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
