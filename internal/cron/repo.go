package cron

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SweepRepository is the storage surface shared by the delay sweep jobs.
type SweepRepository interface {
	ListRealizedAwaitingTech(ctx context.Context, tx *gorm.DB) ([]models.TrackingRecord, error)
	ListTechAwaitingSystem(ctx context.Context, tx *gorm.DB) ([]models.TrackingRecord, error)
	AlertExists(ctx context.Context, tx *gorm.DB, recordID int64, kind enums.AlertKind) (bool, error)
	CreateAlert(ctx context.Context, tx *gorm.DB, alert *models.DelayAlert) error
	FindOrderForLineItem(ctx context.Context, tx *gorm.DB, lineItemID string) (*models.PurchaseOrder, error)
	ListProjectLeads(ctx context.Context, tx *gorm.DB) ([]models.ProjectLead, error)
}

type sweepRepository struct {
	db *gorm.DB
}

// NewSweepRepository builds the delay-sweep repository.
func NewSweepRepository(db *gorm.DB) SweepRepository {
	return &sweepRepository{db: db}
}

func (r *sweepRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *sweepRepository) ListRealizedAwaitingTech(ctx context.Context, tx *gorm.DB) ([]models.TrackingRecord, error) {
	var records []models.TrackingRecord
	err := r.conn(tx).WithContext(ctx).
		Preload("Coordinator.User").
		Where("realization_date IS NOT NULL AND tech_reception_date IS NULL").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sweepRepository) ListTechAwaitingSystem(ctx context.Context, tx *gorm.DB) ([]models.TrackingRecord, error) {
	var records []models.TrackingRecord
	err := r.conn(tx).WithContext(ctx).
		Preload("Coordinator.User").
		Where("tech_reception_date IS NOT NULL AND system_reception_date IS NULL").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sweepRepository) AlertExists(ctx context.Context, tx *gorm.DB, recordID int64, kind enums.AlertKind) (bool, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&models.DelayAlert{}).
		Where("tracking_record_id = ? AND kind = ?", recordID, kind).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *sweepRepository) CreateAlert(ctx context.Context, tx *gorm.DB, alert *models.DelayAlert) error {
	return r.conn(tx).WithContext(ctx).Create(alert).Error
}

func (r *sweepRepository) FindOrderForLineItem(ctx context.Context, tx *gorm.DB, lineItemID string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.conn(tx).WithContext(ctx).
		Preload("BackOffice.User").
		Joins("JOIN line_items ON line_items.order_number = purchase_orders.number").
		Where("line_items.id = ?", lineItemID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *sweepRepository) ListProjectLeads(ctx context.Context, tx *gorm.DB) ([]models.ProjectLead, error) {
	var leads []models.ProjectLead
	err := r.conn(tx).WithContext(ctx).
		Preload("User").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}
