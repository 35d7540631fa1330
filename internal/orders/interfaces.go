package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
)

// Repository defines persistence operations for purchase order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.PurchaseOrder) error
	UpdateOrderFields(ctx context.Context, number string, updates map[string]any) error
	FindOrder(ctx context.Context, number string) (*models.PurchaseOrder, error)
	ListOrders(ctx context.Context) ([]models.PurchaseOrder, error)
	ListOrdersByBackOffice(ctx context.Context, backOfficeID int64) ([]models.PurchaseOrder, error)
	DeleteOrder(ctx context.Context, number string) error
	OrderNumberExists(ctx context.Context, number string) (bool, error)
	LineItemIDExists(ctx context.Context, id string) (bool, error)
	CreateLineItems(ctx context.Context, items []models.LineItem) error
	UpdateLineItemFields(ctx context.Context, id string, updates map[string]any) error
	DeleteLineItems(ctx context.Context, ids []string) error
	CreateTrackingRecords(ctx context.Context, records []models.TrackingRecord) error
	FindBackOffice(ctx context.Context, id int64) (*models.BackOffice, error)
	FindBackOfficeByEmail(ctx context.Context, email string) (*models.BackOffice, error)
	FindCatalogService(ctx context.Context, id int64) (*models.CatalogService, error)
	FindZone(ctx context.Context, id int64) (*models.Zone, error)
	FirstCoordinatorForZone(ctx context.Context, zoneID int64) (*models.Coordinator, error)
	FindProofByOrder(ctx context.Context, number string) (*models.StoredFile, error)
	CreateProof(ctx context.Context, file *models.StoredFile) error
	DeleteProof(ctx context.Context, id int64) error
}
