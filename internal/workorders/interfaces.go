package workorders

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
)

// Repository defines persistence operations for work order tables plus the
// order-side writes the linking engine needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateWorkOrder(ctx context.Context, workOrder *models.WorkOrder) error
	UpdateWorkOrderFields(ctx context.Context, number string, updates map[string]any) error
	FindWorkOrder(ctx context.Context, number string) (*models.WorkOrder, error)
	ListWorkOrders(ctx context.Context) ([]models.WorkOrder, error)
	ListWorkOrdersByZone(ctx context.Context, zoneID int64) ([]models.WorkOrder, error)
	ListWorkOrdersByBackOffice(ctx context.Context, backOfficeID int64) ([]models.WorkOrder, error)
	WorkOrderNumberExists(ctx context.Context, number string) (bool, error)
	DeleteWorkOrder(ctx context.Context, number string) error
	CreateLines(ctx context.Context, lines []models.WorkOrderLine) error
	UpdateLineFields(ctx context.Context, id int64, updates map[string]any) error
	DeleteLines(ctx context.Context, ids []int64) error
	ListLinesForBackOffice(ctx context.Context, backOfficeID int64) ([]models.WorkOrderLine, error)
	FindOrder(ctx context.Context, number string) (*models.PurchaseOrder, error)
	UpdateOrderFields(ctx context.Context, number string, updates map[string]any) error
	CreateTrackingRecords(ctx context.Context, records []models.TrackingRecord) error
	FindZone(ctx context.Context, id int64) (*models.Zone, error)
	FindSiteByCode(ctx context.Context, code string) (*models.Site, error)
	FindBackOffice(ctx context.Context, id int64) (*models.BackOffice, error)
	FindBackOfficeByEmail(ctx context.Context, email string) (*models.BackOffice, error)
	FindCoordinator(ctx context.Context, id int64) (*models.Coordinator, error)
	FindCoordinatorByEmail(ctx context.Context, email string) (*models.Coordinator, error)
	FirstCoordinatorForZone(ctx context.Context, zoneID int64) (*models.Coordinator, error)
	FindCatalogService(ctx context.Context, id int64) (*models.CatalogService, error)
}
