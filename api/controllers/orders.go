package controllers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Ali-desu/Samsic-projet-stage/api/middleware"
	"github.com/Ali-desu/Samsic-projet-stage/api/responses"
	"github.com/Ali-desu/Samsic-projet-stage/api/validators"
	"github.com/Ali-desu/Samsic-projet-stage/internal/files"
	"github.com/Ali-desu/Samsic-projet-stage/internal/orders"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

type orderLineItemRequest struct {
	ID               *string         `json:"id"`
	LineNumber       int             `json:"line_number"`
	Family           string          `json:"family"`
	Description      string          `json:"description"`
	OrderedQty       decimal.Decimal `json:"ordered_qty"`
	CatalogServiceID int64           `json:"catalog_service_id" validate:"required"`
	SiteCode         *string         `json:"site_code"`
	Supplier         *string         `json:"supplier"`
	ZoneID           *int64          `json:"zone_id"`
	Remark           *string         `json:"remark"`
}

type orderRequest struct {
	Number               *string                `json:"number"`
	ProjectDivision      string                 `json:"project_division" validate:"required"`
	ProjectCode          string                 `json:"project_code" validate:"required"`
	Description          string                 `json:"description"`
	IssueDate            *time.Time             `json:"issue_date"`
	BillingProjectNumber string                 `json:"billing_project_number"`
	ReceptionReportNum   string                 `json:"reception_report_number"`
	FromWorkOrder        bool                   `json:"from_work_order"`
	WorkOrderNumber      *string                `json:"work_order_number"`
	ZoneID               *int64                 `json:"zone_id"`
	SiteCode             *string                `json:"site_code"`
	GoDate               *time.Time             `json:"go_date"`
	BackOfficeID         int64                  `json:"back_office_id" validate:"required"`
	LineItems            []orderLineItemRequest `json:"line_items" validate:"required,min=1,dive"`
}

func (req orderRequest) toInput(proof *files.Input) orders.OrderInput {
	input := orders.OrderInput{
		Number:               req.Number,
		ProjectDivision:      req.ProjectDivision,
		ProjectCode:          req.ProjectCode,
		Description:          req.Description,
		IssueDate:            req.IssueDate,
		BillingProjectNumber: req.BillingProjectNumber,
		ReceptionReportNum:   req.ReceptionReportNum,
		FromWorkOrder:        req.FromWorkOrder,
		WorkOrderNumber:      req.WorkOrderNumber,
		ZoneID:               req.ZoneID,
		SiteCode:             req.SiteCode,
		GoDate:               req.GoDate,
		BackOfficeID:         req.BackOfficeID,
		ProofFile:            proof,
	}
	for _, item := range req.LineItems {
		input.LineItems = append(input.LineItems, orders.LineItemInput{
			ID:               item.ID,
			LineNumber:       item.LineNumber,
			Family:           item.Family,
			Description:      item.Description,
			OrderedQty:       item.OrderedQty,
			CatalogServiceID: item.CatalogServiceID,
			SiteCode:         item.SiteCode,
			Supplier:         item.Supplier,
			ZoneID:           item.ZoneID,
			Remark:           item.Remark,
		})
	}
	return input
}

// decodeOrderRequest accepts either a plain JSON body or a multipart form
// with a "payload" JSON part and an optional "file" document part.
func decodeOrderRequest(r *http.Request) (*orderRequest, *files.Input, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		var req orderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, nil, err
		}
		return &req, nil, nil
	}

	if err := r.ParseMultipartForm(files.MaxUploadBytes); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	payload := r.FormValue("payload")
	if strings.TrimSpace(payload) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "payload part is required")
	}
	var req orderRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload part").WithDetails(map[string]any{"error": err.Error()})
	}
	if err := validators.Struct(&req); err != nil {
		return nil, nil, err
	}

	proof, err := readFormFile(r, "file")
	if err != nil {
		return nil, nil, err
	}
	return &req, proof, nil
}

func readFormFile(r *http.Request, field string) (*files.Input, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file part")
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, files.MaxUploadBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read uploaded file")
	}
	return &files.Input{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// CreateOrder registers a purchase order with its line items and optional
// attached document.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		req, proof, err := decodeOrderRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), req.toInput(proof))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// UpdateOrder replaces the order header and reconciles its line items.
func UpdateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		req, proof, err := decodeOrderRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Update(r.Context(), number, req.toInput(proof))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func DeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		if err := svc.Delete(r.Context(), number); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		order, err := svc.Get(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns every order for admins and the caller's own orders for
// back-office users.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		if middleware.RoleFromContext(r.Context()) == string(enums.UserRoleBackOffice) {
			list, err := svc.ListByBackOfficeEmail(r.Context(), middleware.EmailFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, list)
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderServices lists the distinct catalog services referenced by an order.
func OrderServices(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		list, err := svc.ServicesOnOrder(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
