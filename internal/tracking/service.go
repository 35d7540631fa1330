package tracking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/internal/files"
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

// Service defines tracking record operations.
type Service interface {
	Get(ctx context.Context, id int64) (*models.TrackingRecord, error)
	List(ctx context.Context) ([]models.TrackingRecord, error)
	ListByCoordinatorEmail(ctx context.Context, email string) ([]models.TrackingRecord, error)
	ListByBackOfficeEmail(ctx context.Context, email string) ([]models.TrackingRecord, error)
	RealizedAwaitingTech(ctx context.Context) ([]models.TrackingRecord, error)
	TechAwaitingSystem(ctx context.Context) ([]models.TrackingRecord, error)
	Update(ctx context.Context, id int64, patch Patch) (*models.TrackingRecord, error)
	UpdateBulk(ctx context.Context, items []BulkUpdate) ([]BulkResult, error)
	AttachReceptionProof(ctx context.Context, recordID int64, proof ProofInput) error
	CreateForOrder(ctx context.Context, input CreateInput) ([]models.TrackingRecord, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier Notifier
	logg     *logger.Logger
}

// NewService builds a tracking service with the required dependencies.
func NewService(repo Repository, tx txRunner, notifier Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracking repository required")
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

func (s *service) Get(ctx context.Context, id int64) (*models.TrackingRecord, error) {
	record, err := s.repo.FindRecord(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("tracking record %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracking record")
	}
	return record, nil
}

func (s *service) List(ctx context.Context) ([]models.TrackingRecord, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tracking records")
	}
	return records, nil
}

func (s *service) ListByCoordinatorEmail(ctx context.Context, email string) ([]models.TrackingRecord, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinator email required")
	}
	coordinator, err := s.repo.FindCoordinatorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("coordinator not found for email %s", email))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
	}
	records, err := s.repo.ListByCoordinator(ctx, coordinator.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coordinator records")
	}
	return records, nil
}

func (s *service) ListByBackOfficeEmail(ctx context.Context, email string) ([]models.TrackingRecord, error) {
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
	ids, err := s.repo.LineItemIDsForBackOffice(ctx, backOffice.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list back office line items")
	}
	records, err := s.repo.ListByLineItems(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list back office records")
	}
	return records, nil
}

func (s *service) RealizedAwaitingTech(ctx context.Context) ([]models.TrackingRecord, error) {
	records, err := s.repo.ListRealizedAwaitingTech(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list realized records")
	}
	return records, nil
}

func (s *service) TechAwaitingSystem(ctx context.Context) ([]models.TrackingRecord, error) {
	records, err := s.repo.ListTechAwaitingSystem(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tech received records")
	}
	return records, nil
}

func (s *service) Update(ctx context.Context, id int64, patch Patch) (*models.TrackingRecord, error) {
	updates, err := patch.updates()
	if err != nil {
		return nil, err
	}

	var updated *models.TrackingRecord
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindRecord(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("tracking record %d not found", id))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracking record")
		}

		if len(updates) > 0 {
			if err := repo.UpdateRecordFields(ctx, id, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tracking record")
			}
		}

		record, err := repo.FindRecord(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload tracking record")
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) UpdateBulk(ctx context.Context, items []BulkUpdate) ([]BulkResult, error) {
	results := make([]BulkResult, 0, len(items))
	var combined error

	for _, item := range items {
		if item.ID <= 0 {
			s.logg.Warn(ctx, "skipping bulk tracking update without record id")
			results = append(results, BulkResult{ID: item.ID, Err: pkgerrors.New(pkgerrors.CodeValidation, "record id required")})
			continue
		}
		if _, err := s.Update(ctx, item.ID, item.Patch); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "tracking_record_id", item.ID), "bulk tracking update failed", err)
			results = append(results, BulkResult{ID: item.ID, Err: err})
			combined = multierr.Append(combined, fmt.Errorf("record %d: %w", item.ID, err))
			continue
		}
		results = append(results, BulkResult{ID: item.ID, Updated: true})
	}
	return results, combined
}

func (s *service) AttachReceptionProof(ctx context.Context, recordID int64, proof ProofInput) error {
	if err := files.Validate(proof); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindRecord(ctx, recordID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("tracking record %d not found", recordID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tracking record")
		}

		if existing, err := repo.FindProofByRecord(ctx, recordID); err == nil {
			if err := repo.DeleteProof(ctx, existing.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace reception proof")
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reception proof")
		}

		file := &models.StoredFile{
			Name:             proof.Name,
			ContentType:      proof.ContentType,
			Content:          proof.Content,
			TrackingRecordID: &recordID,
		}
		if err := repo.CreateProof(ctx, file); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reception proof")
		}

		if err := repo.UpdateRecordFields(ctx, recordID, map[string]any{"proof_file_id": file.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link reception proof")
		}
		return nil
	})
}

func (s *service) CreateForOrder(ctx context.Context, input CreateInput) ([]models.TrackingRecord, error) {
	if input.OrderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if len(input.Records) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one tracking record is required")
	}

	type pendingNotice struct {
		userID  int64
		message string
	}
	var (
		created []models.TrackingRecord
		notices []pendingNotice
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("purchase order %s not found", input.OrderNumber))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		itemsByID := make(map[string]*models.LineItem, len(order.LineItems))
		for i := range order.LineItems {
			itemsByID[order.LineItems[i].ID] = &order.LineItems[i]
		}

		records := make([]models.TrackingRecord, 0, len(input.Records))
		zoneByRecord := make([]int64, 0, len(input.Records))
		for _, recordInput := range input.Records {
			if recordInput.LineItemID == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "line item id is required")
			}
			item, ok := itemsByID[recordInput.LineItemID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line item %s does not belong to order %s", recordInput.LineItemID, order.Number))
			}
			if item.CatalogServiceID == nil || *item.CatalogServiceID != recordInput.CatalogServiceID {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("catalog service %d does not match line item %s", recordInput.CatalogServiceID, item.ID))
			}
			if _, err := repo.FindZone(ctx, recordInput.ZoneID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid zone id %d", recordInput.ZoneID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load zone")
			}
			site, err := repo.FindSite(ctx, recordInput.SiteID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid site id %d", recordInput.SiteID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load site")
			}

			zoneID := recordInput.ZoneID
			records = append(records, models.TrackingRecord{
				LineItemID:   item.ID,
				ZoneID:       &zoneID,
				SiteID:       &site.ID,
				ValidatedQty: recordInput.ValidatedQty,
				Supplier:     recordInput.Supplier,
				Remark:       recordInput.Remark,
			})
			zoneByRecord = append(zoneByRecord, zoneID)
		}

		if err := repo.CreateRecords(ctx, records); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tracking records")
		}

		for i, record := range records {
			coordinator, err := repo.FirstCoordinatorForZone(ctx, zoneByRecord[i])
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					s.logg.Warn(s.logg.WithField(ctx, "zone_id", zoneByRecord[i]), "no coordinator to notify for new tracking record")
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coordinator")
			}
			if coordinator.User != nil {
				notices = append(notices, pendingNotice{
					userID:  coordinator.User.ID,
					message: fmt.Sprintf("New tracking record created for order %s, line item %s", order.Number, record.LineItemID),
				})
			}
		}

		if order.BackOffice != nil && order.BackOffice.User != nil {
			notices = append(notices, pendingNotice{
				userID:  order.BackOffice.User.ID,
				message: fmt.Sprintf("You created tracking records for order %s", order.Number),
			})
		}

		created = records
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, notice := range notices {
		s.notifier.Notify(ctx, notice.userID, enums.NotificationTypeOrderUpdate, notice.message)
	}
	return created, nil
}

// updates converts the patch into a column update map, rejecting negative
// realized quantities and unknown status strings.
func (p Patch) updates() (map[string]any, error) {
	updates := make(map[string]any)

	if p.RealizedQty != nil {
		if p.RealizedQty.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "realized quantity cannot be negative")
		}
		updates["realized_qty"] = *p.RealizedQty
	}
	if p.InProgressQty != nil {
		updates["in_progress_qty"] = *p.InProgressQty
	}
	if p.TechQty != nil {
		updates["tech_qty"] = *p.TechQty
	}
	if p.SystemQty != nil {
		updates["system_qty"] = *p.SystemQty
	}
	if p.DepositedQty != nil {
		updates["deposited_qty"] = *p.DepositedQty
	}
	if p.ToDepositQty != nil {
		updates["to_deposit_qty"] = *p.ToDepositQty
	}
	if p.Supplier != nil {
		updates["supplier"] = *p.Supplier
	}
	if p.PlannedDate != nil {
		updates["planned_date"] = *p.PlannedDate
	}
	if p.GoDate != nil {
		updates["go_date"] = *p.GoDate
	}
	if p.StartDate != nil {
		updates["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		updates["end_date"] = *p.EndDate
	}
	if p.RealizationDate != nil {
		updates["realization_date"] = *p.RealizationDate
	}
	if p.TechReceptionDate != nil {
		updates["tech_reception_date"] = *p.TechReceptionDate
	}
	if p.PFDate != nil {
		updates["pf_date"] = *p.PFDate
	}
	if p.Remark != nil {
		updates["remark"] = *p.Remark
	}
	if p.ReceptionDelayDays != nil {
		updates["reception_delay_days"] = *p.ReceptionDelayDays
	}

	for column, value := range map[string]*string{
		"realization_status":      p.RealizationStatus,
		"tech_reception_status":   p.TechReceptionStatus,
		"system_reception_status": p.SystemReceptionStatus,
	} {
		if value == nil {
			continue
		}
		if _, err := enums.ParseProgressStatus(*value); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		updates[column] = *value
	}

	return updates, nil
}
