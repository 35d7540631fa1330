package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) UpdateOrderFields(ctx context.Context, number string, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("number = ?", number).
		Updates(updates).Error
}

func (r *repository) FindOrder(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("BackOffice.User").
		Preload("LineItems.CatalogService.Family").
		Preload("LineItems.TrackingRecords").
		Where("number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("BackOffice.User").
		Preload("LineItems").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) ListOrdersByBackOffice(ctx context.Context, backOfficeID int64) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("LineItems.TrackingRecords").
		Where("back_office_id = ?", backOfficeID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) DeleteOrder(ctx context.Context, number string) error {
	return r.db.WithContext(ctx).
		Where("number = ?", number).
		Delete(&models.PurchaseOrder{}).Error
}

func (r *repository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) LineItemIDExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LineItem{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateLineItems(ctx context.Context, items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) UpdateLineItemFields(ctx context.Context, id string, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.LineItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteLineItems(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.LineItem{}).Error
}

func (r *repository) CreateTrackingRecords(ctx context.Context, records []models.TrackingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *repository) FindBackOffice(ctx context.Context, id int64) (*models.BackOffice, error) {
	var backOffice models.BackOffice
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&backOffice).Error
	if err != nil {
		return nil, err
	}
	return &backOffice, nil
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

func (r *repository) FindCatalogService(ctx context.Context, id int64) (*models.CatalogService, error) {
	var service models.CatalogService
	err := r.db.WithContext(ctx).
		Preload("Family").
		Where("id = ?", id).
		First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *repository) FindZone(ctx context.Context, id int64) (*models.Zone, error) {
	var zone models.Zone
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&zone).Error; err != nil {
		return nil, err
	}
	return &zone, nil
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

func (r *repository) FindProofByOrder(ctx context.Context, number string) (*models.StoredFile, error) {
	var file models.StoredFile
	err := r.db.WithContext(ctx).
		Where("order_number = ?", number).
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
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.StoredFile{}).Error
}
