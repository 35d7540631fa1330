package workorders

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a work orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateWorkOrder(ctx context.Context, workOrder *models.WorkOrder) error {
	return r.db.WithContext(ctx).Create(workOrder).Error
}

func (r *repository) UpdateWorkOrderFields(ctx context.Context, number string, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Where("number = ?", number).
		Updates(updates).Error
}

func (r *repository) FindWorkOrder(ctx context.Context, number string) (*models.WorkOrder, error) {
	var workOrder models.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Preload("Site").
		Preload("BackOffice.User").
		Preload("Lines.CatalogService").
		Preload("Lines.Coordinator.User").
		Where("number = ?", number).
		First(&workOrder).Error
	if err != nil {
		return nil, err
	}
	return &workOrder, nil
}

func (r *repository) ListWorkOrders(ctx context.Context) ([]models.WorkOrder, error) {
	var workOrders []models.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Preload("Site").
		Preload("Lines").
		Order("created_at DESC").
		Find(&workOrders).Error
	if err != nil {
		return nil, err
	}
	return workOrders, nil
}

func (r *repository) ListWorkOrdersByZone(ctx context.Context, zoneID int64) ([]models.WorkOrder, error) {
	var workOrders []models.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Preload("Site").
		Preload("Lines").
		Where("zone_id = ?", zoneID).
		Order("created_at DESC").
		Find(&workOrders).Error
	if err != nil {
		return nil, err
	}
	return workOrders, nil
}

func (r *repository) ListWorkOrdersByBackOffice(ctx context.Context, backOfficeID int64) ([]models.WorkOrder, error) {
	var workOrders []models.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Preload("Site").
		Preload("Lines").
		Where("back_office_id = ?", backOfficeID).
		Order("created_at DESC").
		Find(&workOrders).Error
	if err != nil {
		return nil, err
	}
	return workOrders, nil
}

func (r *repository) WorkOrderNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkOrder{}).
		Where("number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) DeleteWorkOrder(ctx context.Context, number string) error {
	return r.db.WithContext(ctx).
		Where("number = ?", number).
		Delete(&models.WorkOrder{}).Error
}

func (r *repository) CreateLines(ctx context.Context, lines []models.WorkOrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *repository) UpdateLineFields(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.WorkOrderLine{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteLines(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.WorkOrderLine{}).Error
}

func (r *repository) ListLinesForBackOffice(ctx context.Context, backOfficeID int64) ([]models.WorkOrderLine, error) {
	var lines []models.WorkOrderLine
	err := r.db.WithContext(ctx).
		Preload("CatalogService").
		Joins("JOIN work_orders ON work_orders.number = work_order_lines.work_order_number").
		Where("work_orders.back_office_id = ?", backOfficeID).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) FindOrder(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("BackOffice.User").
		Preload("LineItems").
		Where("number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrderFields(ctx context.Context, number string, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("number = ?", number).
		Updates(updates).Error
}

func (r *repository) CreateTrackingRecords(ctx context.Context, records []models.TrackingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *repository) FindZone(ctx context.Context, id int64) (*models.Zone, error) {
	var zone models.Zone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *repository) FindSiteByCode(ctx context.Context, code string) (*models.Site, error) {
	var site models.Site
	if err := r.db.WithContext(ctx).First(&site, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *repository) FindBackOffice(ctx context.Context, id int64) (*models.BackOffice, error) {
	var backOffice models.BackOffice
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&backOffice, "id = ?", id).Error
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

func (r *repository) FindCoordinator(ctx context.Context, id int64) (*models.Coordinator, error) {
	var coordinator models.Coordinator
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&coordinator, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &coordinator, nil
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

func (r *repository) FindCatalogService(ctx context.Context, id int64) (*models.CatalogService, error) {
	var service models.CatalogService
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}
