package tracking

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
)

// Repository defines persistence operations for tracking records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRecord(ctx context.Context, id int64) (*models.TrackingRecord, error)
	ListRecords(ctx context.Context) ([]models.TrackingRecord, error)
	ListByCoordinator(ctx context.Context, coordinatorID int64) ([]models.TrackingRecord, error)
	ListByLineItems(ctx context.Context, lineItemIDs []string) ([]models.TrackingRecord, error)
	ListRealizedAwaitingTech(ctx context.Context) ([]models.TrackingRecord, error)
	ListTechAwaitingSystem(ctx context.Context) ([]models.TrackingRecord, error)
	UpdateRecordFields(ctx context.Context, id int64, updates map[string]any) error
	CreateRecords(ctx context.Context, records []models.TrackingRecord) error
	FindOrder(ctx context.Context, number string) (*models.PurchaseOrder, error)
	LineItemIDsForBackOffice(ctx context.Context, backOfficeID int64) ([]string, error)
	FindCoordinatorByEmail(ctx context.Context, email string) (*models.Coordinator, error)
	FindBackOfficeByEmail(ctx context.Context, email string) (*models.BackOffice, error)
	FindZone(ctx context.Context, id int64) (*models.Zone, error)
	FindSite(ctx context.Context, id int64) (*models.Site, error)
	FirstCoordinatorForZone(ctx context.Context, zoneID int64) (*models.Coordinator, error)
	FindProofByRecord(ctx context.Context, recordID int64) (*models.StoredFile, error)
	CreateProof(ctx context.Context, file *models.StoredFile) error
	DeleteProof(ctx context.Context, id int64) error
}
