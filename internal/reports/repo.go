package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListBackOffices(ctx context.Context) ([]models.BackOffice, error) {
	var backOffices []models.BackOffice
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("id ASC").
		Find(&backOffices).Error
	if err != nil {
		return nil, err
	}
	return backOffices, nil
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

func (r *repository) ListOrdersForBackOffice(ctx context.Context, backOfficeID int64) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("LineItems.CatalogService.Family").
		Preload("LineItems.TrackingRecords").
		Where("back_office_id = ?", backOfficeID).
		Order("number ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) MetricExists(ctx context.Context, backOfficeID int64, family string, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DashboardMetric{}).
		Where("back_office_id = ? AND family = ? AND calculation_date = ?", backOfficeID, family, day).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateMetric(ctx context.Context, metric *models.DashboardMetric) error {
	return r.db.WithContext(ctx).Create(metric).Error
}

func (r *repository) ListMetrics(ctx context.Context, backOfficeID int64, family string, start, end time.Time) ([]models.DashboardMetric, error) {
	query := r.db.WithContext(ctx).
		Model(&models.DashboardMetric{}).
		Where("back_office_id = ? AND calculation_date BETWEEN ? AND ?", backOfficeID, start, end)
	if family != "" {
		query = query.Where("family = ?", family)
	}

	var metrics []models.DashboardMetric
	if err := query.Order("calculation_date ASC, family ASC").Find(&metrics).Error; err != nil {
		return nil, err
	}
	return metrics, nil
}
