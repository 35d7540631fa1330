package workorders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Notifier delivers fire-and-forget notifications after commits.
type Notifier interface {
	Notify(ctx context.Context, userID int64, typ enums.NotificationType, message string)
}

// Service defines work order operations, including the linking engine that
// folds a work order into an existing purchase order.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.WorkOrder, error)
	Update(ctx context.Context, number string, input UpdateInput) (*models.WorkOrder, error)
	UpdateBulk(ctx context.Context, items []BulkUpdate) ([]BulkResult, error)
	Get(ctx context.Context, number string) (*models.WorkOrder, error)
	List(ctx context.Context) ([]models.WorkOrder, error)
	ListForUser(ctx context.Context, email string) ([]models.WorkOrder, error)
	MetricsForBackOffice(ctx context.Context, email string) (*Metrics, error)
	LinkToOrder(ctx context.Context, workOrderNumber, orderNumber string) error
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier Notifier
	logg     *logger.Logger
}

// NewService builds a work order service with the required dependencies.
func NewService(repo Repository, tx txRunner, notifier Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("work orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, notifier: notifier, logg: logg}, nil
}

type pendingNotice struct {
	userID  int64
	message string
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.WorkOrder, error) {
	if input.Number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "work order number is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one work order line is required")
	}

	var (
		created *models.WorkOrder
		notices []pendingNotice
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		taken, err := repo.WorkOrderNumberExists(ctx, input.Number)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check work order number")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("work order %s already exists", input.Number))
		}

		workOrder := &models.WorkOrder{
			Number:          input.Number,
			ProjectDivision: input.ProjectDivision,
			ProjectCode:     input.ProjectCode,
			GoDate:          input.GoDate,
		}

		if input.ZoneID != nil {
			zone, err := repo.FindZone(ctx, *input.ZoneID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid zone id %d", *input.ZoneID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
			}
			workOrder.ZoneID = &zone.ID
		}
		if input.SiteCode != nil && *input.SiteCode != "" {
			site, err := repo.FindSiteByCode(ctx, *input.SiteCode)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid site code %s", *input.SiteCode))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load site")
			}
			workOrder.SiteID = &site.ID
		}

		var backOffice *models.BackOffice
		if input.BackOfficeID != nil {
			backOffice, err = repo.FindBackOffice(ctx, *input.BackOfficeID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid back office id %d", *input.BackOfficeID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load back office")
			}
			workOrder.BackOfficeID = &backOffice.ID
		}

		for _, lineInput := range input.Lines {
			if lineInput.CatalogServiceID == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "catalog service id is required for work order line")
			}
			if _, err := repo.FindCatalogService(ctx, *lineInput.CatalogServiceID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid catalog service id %d", *lineInput.CatalogServiceID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog service")
			}
			if lineInput.CoordinatorID != nil {
				if _, err := repo.FindCoordinator(ctx, *lineInput.CoordinatorID); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid coordinator id %d", *lineInput.CoordinatorID))
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
				}
			}

			line := models.WorkOrderLine{
				LineNumber:            lineInput.LineNumber,
				CatalogServiceID:      lineInput.CatalogServiceID,
				CoordinatorID:         lineInput.CoordinatorID,
				ValidatedQty:          lineInput.ValidatedQty,
				Supplier:              lineInput.Supplier,
				PlannedDate:           lineInput.PlannedDate,
				GoDate:                lineInput.GoDate,
				StartDate:             lineInput.StartDate,
				EndDate:               lineInput.EndDate,
				RealizationDate:       lineInput.RealizationDate,
				RealizationStatus:     lineInput.RealizationStatus,
				TechReceptionDate:     lineInput.TechReceptionDate,
				TechReceptionStatus:   lineInput.TechReceptionStatus,
				PFDate:                lineInput.PFDate,
				SystemReceptionDate:   lineInput.SystemReceptionDate,
				SystemReceptionStatus: lineInput.SystemReceptionStatus,
				Remark:                lineInput.Remark,
				ReceptionDelayDays:    lineInput.ReceptionDelayDays,
			}
			if lineInput.Family != nil {
				line.Family = *lineInput.Family
			}
			if lineInput.RealizedQty != nil {
				line.RealizedQty = *lineInput.RealizedQty
			}
			workOrder.Lines = append(workOrder.Lines, line)
		}

		if err := repo.CreateWorkOrder(ctx, workOrder); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("work order %s already exists", input.Number))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create work order")
		}

		if workOrder.ZoneID != nil {
			coordinator, err := repo.FirstCoordinatorForZone(ctx, *workOrder.ZoneID)
			switch {
			case err == nil && coordinator.User != nil:
				notices = append(notices, pendingNotice{
					userID:  coordinator.User.ID,
					message: fmt.Sprintf("New work order %s created", workOrder.Number),
				})
			case errors.Is(err, gorm.ErrRecordNotFound):
				s.logg.Warn(s.logg.WithField(ctx, "zone_id", *workOrder.ZoneID), "no coordinator to notify for new work order")
			case err != nil:
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
			}
		}
		if backOffice != nil && backOffice.User != nil {
			notices = append(notices, pendingNotice{
				userID:  backOffice.User.ID,
				message: fmt.Sprintf("You created work order %s", workOrder.Number),
			})
		}

		created = workOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, notices)
	return created, nil
}

func (s *service) Update(ctx context.Context, number string, input UpdateInput) (*models.WorkOrder, error) {
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "work order number is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one work order line is required")
	}

	var (
		updated *models.WorkOrder
		notices []pendingNotice
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		workOrder, err := repo.FindWorkOrder(ctx, number)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("work order %s not found", number))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load work order")
		}

		headerUpdates := make(map[string]any)
		if input.ProjectDivision != nil {
			headerUpdates["project_division"] = *input.ProjectDivision
		}
		if input.ProjectCode != nil {
			headerUpdates["project_code"] = *input.ProjectCode
		}
		if input.GoDate != nil {
			headerUpdates["go_date"] = *input.GoDate
		}
		if input.ZoneID != nil {
			zone, err := repo.FindZone(ctx, *input.ZoneID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid zone id %d", *input.ZoneID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
			}
			headerUpdates["zone_id"] = zone.ID
		}
		if input.SiteCode != nil {
			site, err := repo.FindSiteByCode(ctx, *input.SiteCode)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid site code %s", *input.SiteCode))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load site")
			}
			headerUpdates["site_id"] = site.ID
		}
		if input.BackOfficeID != nil {
			backOffice, err := repo.FindBackOffice(ctx, *input.BackOfficeID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid back office id %d", *input.BackOfficeID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load back office")
			}
			headerUpdates["back_office_id"] = backOffice.ID
		}
		if len(headerUpdates) > 0 {
			if err := repo.UpdateWorkOrderFields(ctx, workOrder.Number, headerUpdates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update work order")
			}
		}

		existing := make(map[int64]bool, len(workOrder.Lines))
		for _, line := range workOrder.Lines {
			existing[line.ID] = true
		}

		kept := make(map[int64]bool, len(input.Lines))
		for _, lineInput := range input.Lines {
			if lineInput.CatalogServiceID != nil {
				if _, err := repo.FindCatalogService(ctx, *lineInput.CatalogServiceID); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid catalog service id %d", *lineInput.CatalogServiceID))
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog service")
				}
			}
			if lineInput.CoordinatorID != nil {
				if _, err := repo.FindCoordinator(ctx, *lineInput.CoordinatorID); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid coordinator id %d", *lineInput.CoordinatorID))
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
				}
			}

			if lineInput.ID != nil {
				if !existing[*lineInput.ID] {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid work order line id %d", *lineInput.ID))
				}
				updates := lineUpdates(lineInput)
				if len(updates) > 0 {
					if err := repo.UpdateLineFields(ctx, *lineInput.ID, updates); err != nil {
						return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update work order line")
					}
				}
				kept[*lineInput.ID] = true
				continue
			}

			if lineInput.CatalogServiceID == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "catalog service id is required for new work order line")
			}
			line := models.WorkOrderLine{
				WorkOrderNumber:       workOrder.Number,
				LineNumber:            lineInput.LineNumber,
				CatalogServiceID:      lineInput.CatalogServiceID,
				CoordinatorID:         lineInput.CoordinatorID,
				ValidatedQty:          lineInput.ValidatedQty,
				Supplier:              lineInput.Supplier,
				PlannedDate:           lineInput.PlannedDate,
				GoDate:                lineInput.GoDate,
				StartDate:             lineInput.StartDate,
				EndDate:               lineInput.EndDate,
				RealizationDate:       lineInput.RealizationDate,
				RealizationStatus:     lineInput.RealizationStatus,
				TechReceptionDate:     lineInput.TechReceptionDate,
				TechReceptionStatus:   lineInput.TechReceptionStatus,
				PFDate:                lineInput.PFDate,
				SystemReceptionDate:   lineInput.SystemReceptionDate,
				SystemReceptionStatus: lineInput.SystemReceptionStatus,
				Remark:                lineInput.Remark,
				ReceptionDelayDays:    lineInput.ReceptionDelayDays,
			}
			if lineInput.Family != nil {
				line.Family = *lineInput.Family
			}
			if lineInput.RealizedQty != nil {
				line.RealizedQty = *lineInput.RealizedQty
			}
			if err := repo.CreateLines(ctx, []models.WorkOrderLine{line}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create work order line")
			}
		}

		var removed []int64
		for _, line := range workOrder.Lines {
			if !kept[line.ID] {
				removed = append(removed, line.ID)
			}
		}
		if err := repo.DeleteLines(ctx, removed); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete removed work order lines")
		}

		reloaded, err := repo.FindWorkOrder(ctx, workOrder.Number)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload work order")
		}

		if reloaded.ZoneID != nil {
			coordinator, err := repo.FirstCoordinatorForZone(ctx, *reloaded.ZoneID)
			if err == nil && coordinator.User != nil {
				notices = append(notices, pendingNotice{
					userID:  coordinator.User.ID,
					message: fmt.Sprintf("Work order %s updated", reloaded.Number),
				})
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
			}
		}
		if reloaded.BackOffice != nil && reloaded.BackOffice.User != nil {
			notices = append(notices, pendingNotice{
				userID:  reloaded.BackOffice.User.ID,
				message: fmt.Sprintf("You updated work order %s", reloaded.Number),
			})
		}

		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, notices)
	return updated, nil
}

func (s *service) UpdateBulk(ctx context.Context, items []BulkUpdate) ([]BulkResult, error) {
	results := make([]BulkResult, 0, len(items))
	var combined error

	for _, item := range items {
		if item.Number == "" {
			s.logg.Warn(ctx, "skipping bulk work order update without number")
			results = append(results, BulkResult{Err: pkgerrors.New(pkgerrors.CodeValidation, "work order number required")})
			continue
		}
		if _, err := s.Update(ctx, item.Number, item.Input); err != nil {
			s.logg.Error(s.logg.WithWorkOrderNumber(ctx, item.Number), "bulk work order update failed", err)
			results = append(results, BulkResult{Number: item.Number, Err: err})
			combined = multierr.Append(combined, fmt.Errorf("work order %s: %w", item.Number, err))
			continue
		}
		results = append(results, BulkResult{Number: item.Number, Updated: true})
	}
	return results, combined
}

func (s *service) Get(ctx context.Context, number string) (*models.WorkOrder, error) {
	workOrder, err := s.repo.FindWorkOrder(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("work order %s not found", number))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load work order")
	}
	return workOrder, nil
}

func (s *service) List(ctx context.Context) ([]models.WorkOrder, error) {
	workOrders, err := s.repo.ListWorkOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list work orders")
	}
	return workOrders, nil
}

// ListForUser resolves the acting user by email: coordinators see their
// zone's work orders, back offices see their own, anyone else sees none.
func (s *service) ListForUser(ctx context.Context, email string) ([]models.WorkOrder, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	coordinator, err := s.repo.FindCoordinatorByEmail(ctx, email)
	if err == nil {
		if coordinator.ZoneID == nil {
			return nil, nil
		}
		workOrders, err := s.repo.ListWorkOrdersByZone(ctx, *coordinator.ZoneID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list zone work orders")
		}
		return workOrders, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
	}

	backOffice, err := s.repo.FindBackOfficeByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load back office")
	}
	workOrders, err := s.repo.ListWorkOrdersByBackOffice(ctx, backOffice.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list back office work orders")
	}
	return workOrders, nil
}

func (s *service) MetricsForBackOffice(ctx context.Context, email string) (*Metrics, error) {
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

	lines, err := s.repo.ListLinesForBackOffice(ctx, backOffice.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list work order lines")
	}

	metrics := &Metrics{
		TotalCost:    decimal.Zero,
		RealizedCost: decimal.Zero,
		ReceivedCost: decimal.Zero,
	}
	for _, line := range lines {
		if line.ValidatedQty == nil || line.CatalogService == nil {
			continue
		}
		cost := line.CatalogService.UnitPrice.Mul(decimal.NewFromInt(int64(*line.ValidatedQty)))
		metrics.TotalCost = metrics.TotalCost.Add(cost)
		if line.RealizationStatus != nil && *line.RealizationStatus == enums.ProgressStatusRealized.String() {
			metrics.RealizedCost = metrics.RealizedCost.Add(cost)
		}
		if line.TechReceptionStatus != nil && *line.TechReceptionStatus == enums.ProgressStatusTechReceived.String() {
			metrics.ReceivedCost = metrics.ReceivedCost.Add(cost)
		}
	}
	return metrics, nil
}

func (s *service) LinkToOrder(ctx context.Context, workOrderNumber, orderNumber string) error {
	if workOrderNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "work order number is required")
	}
	if orderNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}

	var notices []pendingNotice

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		workOrder, err := repo.FindWorkOrder(ctx, workOrderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("work order %s not found", workOrderNumber))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load work order")
		}
		order, err := repo.FindOrder(ctx, orderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("purchase order %s not found", orderNumber))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if workOrder.ProjectCode != order.ProjectCode {
			return pkgerrors.New(pkgerrors.CodeValidation, "work order and purchase order have different project codes")
		}

		// collect every match before writing anything
		type match struct {
			line *models.WorkOrderLine
			item *models.LineItem
		}
		matches := make([]match, 0, len(workOrder.Lines))
		for i := range workOrder.Lines {
			line := &workOrder.Lines[i]
			if line.CatalogServiceID == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("work order line %d has no catalog service", line.ID))
			}
			var matched *models.LineItem
			for j := range order.LineItems {
				item := &order.LineItems[j]
				if item.CatalogServiceID != nil && *item.CatalogServiceID == *line.CatalogServiceID {
					matched = item
					break
				}
			}
			if matched == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("no matching line item for catalog service %d", *line.CatalogServiceID))
			}
			matches = append(matches, match{line: line, item: matched})
		}

		orderUpdates := map[string]any{
			"work_order_number": workOrder.Number,
			"from_work_order":   true,
		}
		if order.ProjectDivision == "" && workOrder.ProjectDivision != "" {
			orderUpdates["project_division"] = workOrder.ProjectDivision
		}
		if err := repo.UpdateOrderFields(ctx, order.Number, orderUpdates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link order")
		}

		records := make([]models.TrackingRecord, 0, len(matches))
		for _, m := range matches {
			records = append(records, models.TrackingRecord{
				LineItemID:            m.item.ID,
				ZoneID:                workOrder.ZoneID,
				SiteID:                workOrder.SiteID,
				CoordinatorID:         m.line.CoordinatorID,
				ValidatedQty:          m.line.ValidatedQty,
				Supplier:              m.line.Supplier,
				RealizedQty:           m.line.RealizedQty,
				PlannedDate:           m.line.PlannedDate,
				GoDate:                m.line.GoDate,
				StartDate:             m.line.StartDate,
				EndDate:               m.line.EndDate,
				RealizationDate:       m.line.RealizationDate,
				RealizationStatus:     m.line.RealizationStatus,
				TechReceptionDate:     m.line.TechReceptionDate,
				TechReceptionStatus:   m.line.TechReceptionStatus,
				PFDate:                m.line.PFDate,
				SystemReceptionDate:   m.line.SystemReceptionDate,
				SystemReceptionStatus: m.line.SystemReceptionStatus,
				Remark:                m.line.Remark,
				ReceptionDelayDays:    m.line.ReceptionDelayDays,
				ProofFileID:           m.line.ProofFileID,
			})
		}
		if err := repo.CreateTrackingRecords(ctx, records); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tracking records")
		}

		if err := repo.DeleteWorkOrder(ctx, workOrder.Number); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete linked work order")
		}

		if order.BackOffice != nil && order.BackOffice.User != nil {
			notices = append(notices, pendingNotice{
				userID:  order.BackOffice.User.ID,
				message: fmt.Sprintf("Work order %s linked to order %s and deleted", workOrder.Number, order.Number),
			})
		}
		if workOrder.ZoneID != nil {
			coordinator, err := repo.FirstCoordinatorForZone(ctx, *workOrder.ZoneID)
			if err == nil && coordinator.User != nil {
				notices = append(notices, pendingNotice{
					userID:  coordinator.User.ID,
					message: fmt.Sprintf("Work order %s linked to order %s and deleted", workOrder.Number, order.Number),
				})
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.deliver(ctx, notices)
	return nil
}

func (s *service) deliver(ctx context.Context, notices []pendingNotice) {
	for _, notice := range notices {
		s.notifier.Notify(ctx, notice.userID, enums.NotificationTypeOrderUpdate, notice.message)
	}
}

// lineUpdates converts the sparse line input into a column update map.
func lineUpdates(input LineInput) map[string]any {
	updates := make(map[string]any)
	if input.LineNumber != nil {
		updates["line_number"] = *input.LineNumber
	}
	if input.Family != nil {
		updates["family"] = *input.Family
	}
	if input.CatalogServiceID != nil {
		updates["catalog_service_id"] = *input.CatalogServiceID
	}
	if input.CoordinatorID != nil {
		updates["coordinator_id"] = *input.CoordinatorID
	}
	if input.ValidatedQty != nil {
		updates["validated_qty"] = *input.ValidatedQty
	}
	if input.Supplier != nil {
		updates["supplier"] = *input.Supplier
	}
	if input.RealizedQty != nil {
		updates["realized_qty"] = *input.RealizedQty
	}
	if input.PlannedDate != nil {
		updates["planned_date"] = *input.PlannedDate
	}
	if input.GoDate != nil {
		updates["go_date"] = *input.GoDate
	}
	if input.StartDate != nil {
		updates["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		updates["end_date"] = *input.EndDate
	}
	if input.RealizationDate != nil {
		updates["realization_date"] = *input.RealizationDate
	}
	if input.RealizationStatus != nil {
		updates["realization_status"] = *input.RealizationStatus
	}
	if input.TechReceptionDate != nil {
		updates["tech_reception_date"] = *input.TechReceptionDate
	}
	if input.TechReceptionStatus != nil {
		updates["tech_reception_status"] = *input.TechReceptionStatus
	}
	if input.PFDate != nil {
		updates["pf_date"] = *input.PFDate
	}
	if input.SystemReceptionDate != nil {
		updates["system_reception_date"] = *input.SystemReceptionDate
	}
	if input.SystemReceptionStatus != nil {
		updates["system_reception_status"] = *input.SystemReceptionStatus
	}
	if input.Remark != nil {
		updates["remark"] = *input.Remark
	}
	if input.ReceptionDelayDays != nil {
		updates["reception_delay_days"] = *input.ReceptionDelayDays
	}
	return updates
}
