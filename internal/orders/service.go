package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/internal/files"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/db"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/identifier"
)

const (
	remarkAssigned         = "Auto-assigned to coordinator"
	remarkAssignedOnUpdate = "Auto-assigned to coordinator on update"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Notifier delivers fire-and-forget notifications after commits.
type Notifier interface {
	Notify(ctx context.Context, userID int64, typ enums.NotificationType, message string)
}

// Service defines purchase order operations.
type Service interface {
	Create(ctx context.Context, input OrderInput) (*models.PurchaseOrder, error)
	Update(ctx context.Context, number string, input OrderInput) (*models.PurchaseOrder, error)
	Delete(ctx context.Context, number string) error
	Get(ctx context.Context, number string) (*models.PurchaseOrder, error)
	List(ctx context.Context) ([]models.PurchaseOrder, error)
	ListByBackOfficeEmail(ctx context.Context, email string) ([]models.PurchaseOrder, error)
	ServicesOnOrder(ctx context.Context, number string) ([]ServiceSummary, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier Notifier
	now      func() time.Time
}

// NewService builds a purchase order service with the required dependencies.
func NewService(repo Repository, tx txRunner, notifier Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		now:      time.Now,
	}, nil
}

type pendingNotice struct {
	userID  int64
	typ     enums.NotificationType
	message string
}

func (s *service) Create(ctx context.Context, input OrderInput) (*models.PurchaseOrder, error) {
	normalizeInput(&input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var (
		created *models.PurchaseOrder
		notices []pendingNotice
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		backOffice, err := repo.FindBackOffice(ctx, input.BackOfficeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid back office id %d", input.BackOfficeID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load back office")
		}

		number, err := s.resolveOrderNumber(ctx, repo, input.Number)
		if err != nil {
			return err
		}

		issueDate := s.now().UTC()
		if input.IssueDate != nil {
			issueDate = *input.IssueDate
		}

		order := &models.PurchaseOrder{
			Number:               number,
			ProjectDivision:      input.ProjectDivision,
			ProjectCode:          input.ProjectCode,
			Description:          input.Description,
			IssueDate:            &issueDate,
			BillingProjectNumber: input.BillingProjectNumber,
			ReceptionReportNum:   input.ReceptionReportNum,
			FromWorkOrder:        input.FromWorkOrder,
			BackOfficeID:         &backOffice.ID,
		}
		if input.FromWorkOrder {
			order.WorkOrderNumber = input.WorkOrderNumber
		}

		for _, lineInput := range input.LineItems {
			if _, err := repo.FindCatalogService(ctx, lineInput.CatalogServiceID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid catalog service id %d", lineInput.CatalogServiceID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog service")
			}

			id, err := identifier.Generate(ctx, identifier.LineItemPrefix, repo.LineItemIDExists)
			if err != nil {
				return err
			}

			lineNumber := lineInput.LineNumber
			item := models.LineItem{
				ID:               id,
				LineNumber:       &lineNumber,
				Family:           lineInput.Family,
				Description:      lineInput.Description,
				OrderedQty:       lineInput.OrderedQty,
				CatalogServiceID: &lineInput.CatalogServiceID,
				Supplier:         lineInput.Supplier,
			}
			if input.FromWorkOrder {
				item.SiteCode = input.SiteCode
			} else {
				item.SiteCode = lineInput.SiteCode
			}
			order.LineItems = append(order.LineItems, item)
		}

		if err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("purchase order %s already exists", number))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if input.ProofFile != nil {
			if err := files.Validate(*input.ProofFile); err != nil {
				return err
			}
			proof := &models.StoredFile{
				Name:        input.ProofFile.Name,
				ContentType: input.ProofFile.ContentType,
				Content:     input.ProofFile.Content,
				OrderNumber: &order.Number,
			}
			if err := repo.CreateProof(ctx, proof); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store order file")
			}
		}

		if backOffice.User != nil {
			notices = append(notices, pendingNotice{
				userID:  backOffice.User.ID,
				typ:     enums.NotificationTypeOrderUpdate,
				message: fmt.Sprintf("New purchase order %s created", order.Number),
			})
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, notices)
	return created, nil
}

func (s *service) Update(ctx context.Context, number string, input OrderInput) (*models.PurchaseOrder, error) {
	normalizeInput(&input)
	if input.Number == nil || *input.Number == "" {
		input.Number = &number
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var (
		updated *models.PurchaseOrder
		notices []pendingNotice
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, number)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("purchase order %s not found", number))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		backOffice, err := repo.FindBackOffice(ctx, input.BackOfficeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid back office id %d", input.BackOfficeID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load back office")
		}

		if input.FromWorkOrder {
			if _, err := repo.FindZone(ctx, *input.ZoneID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid zone id %d", *input.ZoneID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
			}
		}

		issueDate := s.now().UTC()
		if input.IssueDate != nil {
			issueDate = *input.IssueDate
		}

		var workOrderNumber *string
		if input.FromWorkOrder {
			workOrderNumber = input.WorkOrderNumber
		}
		headerUpdates := map[string]any{
			"project_division":       input.ProjectDivision,
			"project_code":           input.ProjectCode,
			"description":            input.Description,
			"issue_date":             issueDate,
			"billing_project_number": input.BillingProjectNumber,
			"reception_report_num":   input.ReceptionReportNum,
			"from_work_order":        input.FromWorkOrder,
			"work_order_number":      workOrderNumber,
			"back_office_id":         backOffice.ID,
		}
		if err := repo.UpdateOrderFields(ctx, order.Number, headerUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		if input.ProofFile != nil {
			if err := files.Validate(*input.ProofFile); err != nil {
				return err
			}
			if existing, err := repo.FindProofByOrder(ctx, order.Number); err == nil {
				if err := repo.DeleteProof(ctx, existing.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order file")
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order file")
			}
			proof := &models.StoredFile{
				Name:        input.ProofFile.Name,
				ContentType: input.ProofFile.ContentType,
				Content:     input.ProofFile.Content,
				OrderNumber: &order.Number,
			}
			if err := repo.CreateProof(ctx, proof); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store order file")
			}
		}

		kept := make(map[string]bool, len(input.LineItems))
		for _, lineInput := range input.LineItems {
			if _, err := repo.FindCatalogService(ctx, lineInput.CatalogServiceID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid catalog service id %d", lineInput.CatalogServiceID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog service")
			}

			zoneID, err := resolveLineZone(input, lineInput)
			if err != nil {
				return err
			}
			coordinator, err := repo.FirstCoordinatorForZone(ctx, zoneID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no coordinator found for zone id %d", zoneID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
			}

			existing := matchLineItem(order.LineItems, input, lineInput)
			if existing != nil {
				lineNumber := lineInput.LineNumber
				updates := map[string]any{
					"line_number":        lineNumber,
					"family":             lineInput.Family,
					"description":        lineInput.Description,
					"ordered_qty":        lineInput.OrderedQty,
					"catalog_service_id": lineInput.CatalogServiceID,
					"supplier":           lineInput.Supplier,
					"site_code":          lineSiteCode(input, lineInput),
				}
				if err := repo.UpdateLineItemFields(ctx, existing.ID, updates); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line item")
				}

				record := newZeroTrackingRecord(existing.ID, coordinator, zoneID, input.GoDate, lineInput, remarkAssignedOnUpdate)
				if err := repo.CreateTrackingRecords(ctx, []models.TrackingRecord{record}); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tracking record")
				}

				kept[existing.ID] = true
				if coordinator.User != nil {
					notices = append(notices, pendingNotice{
						userID:  coordinator.User.ID,
						typ:     enums.NotificationTypeOrderUpdate,
						message: fmt.Sprintf("Tracking record updated for line item %s in order %s", existing.ID, order.Number),
					})
				}
				continue
			}

			if input.FromWorkOrder && hasLineNumber(order.LineItems, lineInput.LineNumber) {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate line number %d for work order line", lineInput.LineNumber))
			}

			id, err := s.resolveLineItemID(ctx, repo, lineInput.ID)
			if err != nil {
				return err
			}

			lineNumber := lineInput.LineNumber
			item := models.LineItem{
				ID:               id,
				OrderNumber:      order.Number,
				LineNumber:       &lineNumber,
				Family:           lineInput.Family,
				Description:      lineInput.Description,
				OrderedQty:       lineInput.OrderedQty,
				CatalogServiceID: &lineInput.CatalogServiceID,
				Supplier:         lineInput.Supplier,
				SiteCode:         lineSiteCode(input, lineInput),
			}
			if err := repo.CreateLineItems(ctx, []models.LineItem{item}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create line item")
			}

			record := newZeroTrackingRecord(id, coordinator, zoneID, input.GoDate, lineInput, remarkAssigned)
			if err := repo.CreateTrackingRecords(ctx, []models.TrackingRecord{record}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tracking record")
			}

			kept[id] = true
			if coordinator.User != nil {
				notices = append(notices, pendingNotice{
					userID:  coordinator.User.ID,
					typ:     enums.NotificationTypeOrderUpdate,
					message: fmt.Sprintf("Tracking record created for line item %s in order %s", id, order.Number),
				})
			}
		}

		var removed []string
		for _, item := range order.LineItems {
			if !kept[item.ID] {
				removed = append(removed, item.ID)
			}
		}
		if err := repo.DeleteLineItems(ctx, removed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete removed line items")
		}

		if backOffice.User != nil {
			notices = append(notices, pendingNotice{
				userID:  backOffice.User.ID,
				typ:     enums.NotificationTypeOrderUpdate,
				message: fmt.Sprintf("Purchase order %s updated", order.Number),
			})
		}

		updated, err = repo.FindOrder(ctx, order.Number)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, notices)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, number string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, number)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("purchase order %s not found", number))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if proof, err := repo.FindProofByOrder(ctx, order.Number); err == nil {
			if err := repo.DeleteProof(ctx, proof.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order file")
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order file")
		}

		var ids []string
		for _, item := range order.LineItems {
			ids = append(ids, item.ID)
		}
		if err := repo.DeleteLineItems(ctx, ids); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line items")
		}

		if err := repo.DeleteOrder(ctx, order.Number); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

func (s *service) Get(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	order, err := s.repo.FindOrder(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("purchase order %s not found", number))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context) ([]models.PurchaseOrder, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

func (s *service) ListByBackOfficeEmail(ctx context.Context, email string) ([]models.PurchaseOrder, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "back office email required")
	}

	backOffice, err := s.repo.FindBackOfficeByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("back office not found for email %s", email))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load back office")
	}

	orders, err := s.repo.ListOrdersByBackOffice(ctx, backOffice.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list back office orders")
	}
	return orders, nil
}

func (s *service) ServicesOnOrder(ctx context.Context, number string) ([]ServiceSummary, error) {
	order, err := s.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var summaries []ServiceSummary
	for _, item := range order.LineItems {
		if item.CatalogService == nil || seen[item.CatalogService.ID] {
			continue
		}
		seen[item.CatalogService.ID] = true
		summary := ServiceSummary{
			ID:          item.CatalogService.ID,
			Description: item.CatalogService.Description,
		}
		if item.CatalogService.Family != nil {
			name := item.CatalogService.Family.Name
			summary.FamilyName = &name
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *service) resolveOrderNumber(ctx context.Context, repo Repository, provided *string) (string, error) {
	if provided != nil && *provided != "" {
		taken, err := repo.OrderNumberExists(ctx, *provided)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order number")
		}
		if taken {
			return "", pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("purchase order %s already exists", *provided))
		}
		return *provided, nil
	}
	return identifier.Generate(ctx, identifier.OrderPrefix, repo.OrderNumberExists)
}

func (s *service) resolveLineItemID(ctx context.Context, repo Repository, provided *string) (string, error) {
	if provided != nil && *provided != "" {
		taken, err := repo.LineItemIDExists(ctx, *provided)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check line item id")
		}
		if !taken {
			return *provided, nil
		}
	}
	return identifier.Generate(ctx, identifier.LineItemPrefix, repo.LineItemIDExists)
}

func (s *service) deliver(ctx context.Context, notices []pendingNotice) {
	for _, notice := range notices {
		s.notifier.Notify(ctx, notice.userID, notice.typ, notice.message)
	}
}

func normalizeInput(input *OrderInput) {
	if input.WorkOrderNumber != nil && *input.WorkOrderNumber != "" {
		input.FromWorkOrder = true
	}
}

func validateInput(input OrderInput) error {
	if len(input.LineItems) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}
	if input.BackOfficeID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "back office id is required")
	}
	if input.FromWorkOrder {
		if input.WorkOrderNumber == nil || *input.WorkOrderNumber == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "work order number is required for work order based orders")
		}
		if input.ZoneID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "zone id is required for work order based orders")
		}
		if input.GoDate == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "go date is required for work order based orders")
		}
		if input.SiteCode == nil || *input.SiteCode == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "site code is required for work order based orders")
		}
	} else if input.Number == nil || *input.Number == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	return validateLineInputs(input.LineItems)
}

func validateLineInputs(items []LineItemInput) error {
	for _, item := range items {
		if item.LineNumber <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line number must be positive")
		}
		if item.CatalogServiceID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "catalog service id is required")
		}
		if item.OrderedQty.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "ordered quantity cannot be negative")
		}
	}
	return nil
}

func resolveLineZone(input OrderInput, lineInput LineItemInput) (int64, error) {
	if input.FromWorkOrder {
		return *input.ZoneID, nil
	}
	if lineInput.ZoneID == nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "line item zone is required for tracking record creation")
	}
	return *lineInput.ZoneID, nil
}

func lineSiteCode(input OrderInput, lineInput LineItemInput) *string {
	if input.FromWorkOrder {
		return input.SiteCode
	}
	return lineInput.SiteCode
}

func matchLineItem(existing []models.LineItem, input OrderInput, lineInput LineItemInput) *models.LineItem {
	for i := range existing {
		item := &existing[i]
		if lineInput.ID != nil && *lineInput.ID == item.ID {
			return item
		}
		if input.FromWorkOrder && lineInput.ID == nil &&
			item.LineNumber != nil && *item.LineNumber == lineInput.LineNumber {
			return item
		}
	}
	return nil
}

func hasLineNumber(existing []models.LineItem, lineNumber int) bool {
	for _, item := range existing {
		if item.LineNumber != nil && *item.LineNumber == lineNumber {
			return true
		}
	}
	return false
}

func newZeroTrackingRecord(lineItemID string, coordinator *models.Coordinator, zoneID int64, goDate *time.Time, lineInput LineItemInput, defaultRemark string) models.TrackingRecord {
	remark := defaultRemark
	if lineInput.Remark != nil && *lineInput.Remark != "" {
		remark = *lineInput.Remark
	}
	delay := 0
	zero := decimal.Zero
	return models.TrackingRecord{
		LineItemID:         lineItemID,
		CoordinatorID:      &coordinator.ID,
		ZoneID:             &zoneID,
		Supplier:           lineInput.Supplier,
		RealizedQty:        zero,
		InProgressQty:      zero,
		TechQty:            zero,
		SystemQty:          zero,
		DepositedQty:       zero,
		ToDepositQty:       zero,
		GoDate:             goDate,
		Remark:             &remark,
		ReceptionDelayDays: &delay,
	}
}
