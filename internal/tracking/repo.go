package tracking

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tracking repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindRecord(ctx context.Context, id int64) (*models.TrackingRecord, error) {
	var record models.TrackingRecord
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Preload("Site").
		Preload("Coordinator.User").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListRecords(ctx context.Context) ([]models.TrackingRecord, error) {
	var records []models.TrackingRecord
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Preload("Site").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByCoordinator(ctx context.Context, coordinatorID int64) ([]models.TrackingRecord, error) {
	var records []models.TrackingRecord
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Preload("Site").
		Where("coordinator_id = ?", coordinatorID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByLineItems(ctx context.Context, lineItemIDs []string) ([]models.TrackingRecord, error) {
	if len(lineItemIDs) == 0 {
		return nil, nil
	}
	var records []models.TrackingRecord
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Preload("Site").
		Where("line_item_id IN ?", lineItemIDs).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListRealizedAwaitingTech(ctx context.Context) ([]models.TrackingRecord, error) {
	var records []models.TrackingRecord
	err := r.db.WithContext(ctx).
		Preload("Coordinator.User").
		Where("realization_date IS NOT NULL AND tech_reception_date IS NULL").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListTechAwaitingSystem(ctx context.Context) ([]models.TrackingRecord, error) {
	var records []models.TrackingRecord
	err := r.db.WithContext(ctx).
		Preload("Coordinator.User").
		Where("tech_reception_date IS NOT NULL AND system_reception_date IS NULL").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) UpdateRecordFields(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.TrackingRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CreateRecords(ctx context.Context, records []models.TrackingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *repository) FindOrder(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("BackOffice.User").
		Preload("LineItems.CatalogService").
		Where("number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) LineItemIDsForBackOffice(ctx context.Context, backOfficeID int64) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.LineItem{}).
		Joins("JOIN purchase_orders ON purchase_orders.number = line_items.order_number").
		Where("purchase_orders.back_office_id = ?", backOfficeID).
		Pluck("line_items.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) FindCoordinatorByEmail(ctx context.Context, email string) (*models.Coordinator, error) {
	var coordinator models.Coordinator
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = coordinators.user_id").
		Where("users.email = ?", email).
		First(&coordinator).Error
	if err != nil {
		return nil, err
	}
	return &coordinator, nil
}

func (r *repository) FindBackOfficeByEmail(ctx context.Context, email string) (*models.BackOffice, error) {
	var backOffice models.BackOffice
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = back_offices.user_id").
		Where("users.email = ?", email).
		First(&backOffice).Error
	if err != nil {
		return nil, err
	}
	return &backOffice, nil
}

func (r *repository) FindZone(ctx context.Context, id int64) (*models.Zone, error) {
	var zone models.Zone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *repository) FindSite(ctx context.Context, id int64) (*models.Site, error) {
	var site models.Site
	if err := r.db.WithContext(ctx).First(&site, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *repository) FirstCoordinatorForZone(ctx context.Context, zoneID int64) (*models.Coordinator, error) {
	var coordinator models.Coordinator
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("zone_id = ?", zoneID).
		Order("id ASC").
		First(&coordinator).Error
	if err != nil {
		return nil, err
	}
	return &coordinator, nil
}

func (r *repository) FindProofByRecord(ctx context.Context, recordID int64) (*models.StoredFile, error) {
	var file models.StoredFile
	err := r.db.WithContext(ctx).
		Where("tracking_record_id = ?", recordID).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *repository) CreateProof(ctx context.Context, file *models.StoredFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *repository) DeleteProof(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.StoredFile{}, "id = ?", id).Error
}
