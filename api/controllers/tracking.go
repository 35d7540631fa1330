package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/Ali-desu/Samsic-projet-stage/api/middleware"
	"github.com/Ali-desu/Samsic-projet-stage/api/responses"
	"github.com/Ali-desu/Samsic-projet-stage/api/validators"
	"github.com/Ali-desu/Samsic-projet-stage/internal/tracking"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

type trackingPatchRequest struct {
	RealizedQty   *decimal.Decimal `json:"realized_qty"`
	InProgressQty *decimal.Decimal `json:"in_progress_qty"`
	TechQty       *decimal.Decimal `json:"tech_qty"`
	SystemQty     *decimal.Decimal `json:"system_qty"`
	DepositedQty  *decimal.Decimal `json:"deposited_qty"`
	ToDepositQty  *decimal.Decimal `json:"to_deposit_qty"`

	Supplier *string `json:"supplier"`

	PlannedDate       *time.Time `json:"planned_date"`
	GoDate            *time.Time `json:"go_date"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	RealizationDate   *time.Time `json:"realization_date"`
	TechReceptionDate *time.Time `json:"tech_reception_date"`
	PFDate            *time.Time `json:"pf_date"`

	RealizationStatus     *string `json:"realization_status"`
	TechReceptionStatus   *string `json:"tech_reception_status"`
	SystemReceptionStatus *string `json:"system_reception_status"`

	Remark             *string `json:"remark"`
	ReceptionDelayDays *int    `json:"reception_delay_days"`
}

func (req trackingPatchRequest) toPatch() tracking.Patch {
	return tracking.Patch{
		RealizedQty:           req.RealizedQty,
		InProgressQty:         req.InProgressQty,
		TechQty:               req.TechQty,
		SystemQty:             req.SystemQty,
		DepositedQty:          req.DepositedQty,
		ToDepositQty:          req.ToDepositQty,
		Supplier:              req.Supplier,
		PlannedDate:           req.PlannedDate,
		GoDate:                req.GoDate,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		RealizationDate:       req.RealizationDate,
		TechReceptionDate:     req.TechReceptionDate,
		PFDate:                req.PFDate,
		RealizationStatus:     req.RealizationStatus,
		TechReceptionStatus:   req.TechReceptionStatus,
		SystemReceptionStatus: req.SystemReceptionStatus,
		Remark:                req.Remark,
		ReceptionDelayDays:    req.ReceptionDelayDays,
	}
}

type bulkTrackingItem struct {
	ID    int64                `json:"id" validate:"required"`
	Patch trackingPatchRequest `json:"patch"`
}

type bulkTrackingRequest struct {
	Items []bulkTrackingItem `json:"items" validate:"required,min=1,dive"`
}

type bulkTrackingResult struct {
	ID      int64  `json:"id"`
	Updated bool   `json:"updated"`
	Error   string `json:"error,omitempty"`
}

type createTrackingRecordRequest struct {
	LineItemID       string  `json:"line_item_id" validate:"required"`
	CatalogServiceID int64   `json:"catalog_service_id" validate:"required"`
	ZoneID           int64   `json:"zone_id" validate:"required"`
	SiteID           int64   `json:"site_id" validate:"required"`
	ValidatedQty     *int    `json:"validated_qty"`
	Supplier         *string `json:"supplier"`
	Remark           *string `json:"remark"`
}

type createTrackingRequest struct {
	Records []createTrackingRecordRequest `json:"records" validate:"required,min=1,dive"`
}

func parseTrackingID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "recordId"))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "record id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "record id must be a positive integer")
	}
	return id, nil
}

func GetTrackingRecord(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		id, err := parseTrackingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ListTrackingRecords scopes the list to the acting user's role.
func ListTrackingRecords(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		email := middleware.EmailFromContext(r.Context())
		switch middleware.RoleFromContext(r.Context()) {
		case string(enums.UserRoleCoordinator):
			list, err := svc.ListByCoordinatorEmail(r.Context(), email)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
		case string(enums.UserRoleBackOffice):
			list, err := svc.ListByBackOfficeEmail(r.Context(), email)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
		default:
			list, err := svc.List(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
		}
	}
}

// ListStalledTrackingRecords exposes the two delay-scan views used by the
// sweep jobs for ad-hoc inspection.
func ListStalledTrackingRecords(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		stage := strings.TrimSpace(r.URL.Query().Get("stage"))
		switch stage {
		case "", "tech-reception":
			list, err := svc.RealizedAwaitingTech(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
		case "system-reception":
			list, err := svc.TechAwaitingSystem(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
		default:
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "stage must be tech-reception or system-reception"))
		}
	}
}

func UpdateTrackingRecord(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		id, err := parseTrackingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req trackingPatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Update(r.Context(), id, req.toPatch())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// BulkUpdateTrackingRecords applies every patch it can and reports per-item
// outcomes.
func BulkUpdateTrackingRecords(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		var req bulkTrackingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]tracking.BulkUpdate, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, tracking.BulkUpdate{ID: item.ID, Patch: item.Patch.toPatch()})
		}

		results, err := svc.UpdateBulk(r.Context(), items)
		if results == nil && err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]bulkTrackingResult, 0, len(results))
		for _, res := range results {
			item := bulkTrackingResult{ID: res.ID, Updated: res.Updated}
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

// AttachTrackingProof stores the technical reception document uploaded as
// the "file" multipart part, replacing any previous proof.
func AttachTrackingProof(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		id, err := parseTrackingID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		proof, err := readFormFile(r, "file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if proof == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file part is required"))
			return
		}

		if err := svc.AttachReceptionProof(r.Context(), id, *proof); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "attached"})
	}
}

// CreateTrackingRecords adds manual tracking records to an order's line items.
func CreateTrackingRecords(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		orderNumber := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		var req createTrackingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := tracking.CreateInput{OrderNumber: orderNumber}
		for _, rec := range req.Records {
			input.Records = append(input.Records, tracking.CreateRecordInput{
				LineItemID:       rec.LineItemID,
				CatalogServiceID: rec.CatalogServiceID,
				ZoneID:           rec.ZoneID,
				SiteID:           rec.SiteID,
				ValidatedQty:     rec.ValidatedQty,
				Supplier:         rec.Supplier,
				Remark:           rec.Remark,
			})
		}

		records, err := svc.CreateForOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, records)
	}
}
