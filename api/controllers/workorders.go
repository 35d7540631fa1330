package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/Ali-desu/Samsic-projet-stage/api/middleware"
	"github.com/Ali-desu/Samsic-projet-stage/api/responses"
	"github.com/Ali-desu/Samsic-projet-stage/api/validators"
	"github.com/Ali-desu/Samsic-projet-stage/internal/workorders"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

type workOrderLineRequest struct {
	ID               *int64           `json:"id"`
	LineNumber       *int             `json:"line_number"`
	Family           *string          `json:"family"`
	CatalogServiceID *int64           `json:"catalog_service_id"`
	CoordinatorID    *int64           `json:"coordinator_id"`
	ValidatedQty     *int             `json:"validated_qty"`
	Supplier         *string          `json:"supplier"`
	RealizedQty      *decimal.Decimal `json:"realized_qty"`

	PlannedDate     *time.Time `json:"planned_date"`
	GoDate          *time.Time `json:"go_date"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	RealizationDate *time.Time `json:"realization_date"`

	RealizationStatus     *string    `json:"realization_status"`
	TechReceptionDate     *time.Time `json:"tech_reception_date"`
	TechReceptionStatus   *string    `json:"tech_reception_status"`
	PFDate                *time.Time `json:"pf_date"`
	SystemReceptionDate   *time.Time `json:"system_reception_date"`
	SystemReceptionStatus *string    `json:"system_reception_status"`

	Remark             *string `json:"remark"`
	ReceptionDelayDays *int    `json:"reception_delay_days"`
}

func (req workOrderLineRequest) toInput() workorders.LineInput {
	return workorders.LineInput{
		ID:                    req.ID,
		LineNumber:            req.LineNumber,
		Family:                req.Family,
		CatalogServiceID:      req.CatalogServiceID,
		CoordinatorID:         req.CoordinatorID,
		ValidatedQty:          req.ValidatedQty,
		Supplier:              req.Supplier,
		RealizedQty:           req.RealizedQty,
		PlannedDate:           req.PlannedDate,
		GoDate:                req.GoDate,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		RealizationDate:       req.RealizationDate,
		RealizationStatus:     req.RealizationStatus,
		TechReceptionDate:     req.TechReceptionDate,
		TechReceptionStatus:   req.TechReceptionStatus,
		PFDate:                req.PFDate,
		SystemReceptionDate:   req.SystemReceptionDate,
		SystemReceptionStatus: req.SystemReceptionStatus,
		Remark:                req.Remark,
		ReceptionDelayDays:    req.ReceptionDelayDays,
	}
}

type createWorkOrderRequest struct {
	Number          string                 `json:"number" validate:"required"`
	ProjectDivision string                 `json:"project_division" validate:"required"`
	ProjectCode     string                 `json:"project_code" validate:"required"`
	ZoneID          *int64                 `json:"zone_id"`
	SiteCode        *string                `json:"site_code"`
	GoDate          *time.Time             `json:"go_date"`
	BackOfficeID    *int64                 `json:"back_office_id"`
	Lines           []workOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

type updateWorkOrderRequest struct {
	ProjectDivision *string                `json:"project_division"`
	ProjectCode     *string                `json:"project_code"`
	ZoneID          *int64                 `json:"zone_id"`
	SiteCode        *string                `json:"site_code"`
	GoDate          *time.Time             `json:"go_date"`
	BackOfficeID    *int64                 `json:"back_office_id"`
	Lines           []workOrderLineRequest `json:"lines"`
}

func (req updateWorkOrderRequest) toInput() workorders.UpdateInput {
	input := workorders.UpdateInput{
		ProjectDivision: req.ProjectDivision,
		ProjectCode:     req.ProjectCode,
		ZoneID:          req.ZoneID,
		SiteCode:        req.SiteCode,
		GoDate:          req.GoDate,
		BackOfficeID:    req.BackOfficeID,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, line.toInput())
	}
	return input
}

type bulkWorkOrderItem struct {
	Number string                 `json:"number" validate:"required"`
	Update updateWorkOrderRequest `json:"update"`
}

type bulkWorkOrderRequest struct {
	Items []bulkWorkOrderItem `json:"items" validate:"required,min=1,dive"`
}

type bulkWorkOrderResult struct {
	Number  string `json:"number"`
	Updated bool   `json:"updated"`
	Error   string `json:"error,omitempty"`
}

func CreateWorkOrder(svc workorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work orders service unavailable"))
			return
		}

		var req createWorkOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := workorders.CreateInput{
			Number:          req.Number,
			ProjectDivision: req.ProjectDivision,
			ProjectCode:     req.ProjectCode,
			ZoneID:          req.ZoneID,
			SiteCode:        req.SiteCode,
			GoDate:          req.GoDate,
			BackOfficeID:    req.BackOfficeID,
		}
		for _, line := range req.Lines {
			input.Lines = append(input.Lines, line.toInput())
		}

		workOrder, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, workOrder)
	}
}

func UpdateWorkOrder(svc workorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work orders service unavailable"))
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "workOrderNumber"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "work order number is required"))
			return
		}

		var req updateWorkOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		workOrder, err := svc.Update(r.Context(), number, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, workOrder)
	}
}

// BulkUpdateWorkOrders applies every update it can and reports per-item
// outcomes alongside the combined error, mirroring the service contract.
func BulkUpdateWorkOrders(svc workorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work orders service unavailable"))
			return
		}

		var req bulkWorkOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]workorders.BulkUpdate, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, workorders.BulkUpdate{
				Number: item.Number,
				Input:  item.Update.toInput(),
			})
		}

		results, err := svc.UpdateBulk(r.Context(), items)
		if results == nil && err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]bulkWorkOrderResult, 0, len(results))
		for _, res := range results {
			item := bulkWorkOrderResult{Number: res.Number, Updated: res.Updated}
			if res.Err != nil {
				item.Error = res.Err.Error()
			}
			out = append(out, item)
		}

		status := http.StatusOK
		if len(multierr.Errors(err)) > 0 {
			status = http.StatusMultiStatus
		}
		responses.WriteSuccessStatus(w, status, out)
	}
}

func GetWorkOrder(svc workorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work orders service unavailable"))
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "workOrderNumber"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "work order number is required"))
			return
		}

		workOrder, err := svc.Get(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, workOrder)
	}
}

// ListWorkOrders scopes the list to the acting user: coordinators see their
// zone, back-office users their own work orders, admins everything.
func ListWorkOrders(svc workorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work orders service unavailable"))
			return
		}

		if scoped := strings.TrimSpace(r.URL.Query().Get("scope")); scoped == "all" {
			list, err := svc.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
			return
		}

		list, err := svc.ListForUser(r.Context(), middleware.EmailFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// WorkOrderMetrics returns the cost rollup for the acting back-office user.
func WorkOrderMetrics(svc workorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work orders service unavailable"))
			return
		}

		email := resolveReportEmail(r)
		metrics, err := svc.MetricsForBackOffice(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, metrics)
	}
}

type linkWorkOrderRequest struct {
	OrderNumber string `json:"order_number" validate:"required"`
}

// LinkWorkOrder converts a work order into tracking records on an existing
// purchase order and retires the work order.
func LinkWorkOrder(svc workorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "work orders service unavailable"))
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "workOrderNumber"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "work order number is required"))
			return
		}

		var req linkWorkOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.LinkToOrder(r.Context(), number, req.OrderNumber); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "linked"})
	}
}

// resolveReportEmail prefers an explicit email query parameter and falls
// back to the authenticated user's email.
func resolveReportEmail(r *http.Request) string {
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		return email
	}
	return middleware.EmailFromContext(r.Context())
}
