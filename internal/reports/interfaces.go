package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
)

// Repository loads the pipeline graph the report engine aggregates over
// and persists daily dashboard snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListBackOffices(ctx context.Context) ([]models.BackOffice, error)
	FindBackOfficeByEmail(ctx context.Context, email string) (*models.BackOffice, error)
	ListOrdersForBackOffice(ctx context.Context, backOfficeID int64) ([]models.PurchaseOrder, error)

	MetricExists(ctx context.Context, backOfficeID int64, family string, day time.Time) (bool, error)
	CreateMetric(ctx context.Context, metric *models.DashboardMetric) error
	ListMetrics(ctx context.Context, backOfficeID int64, family string, start, end time.Time) ([]models.DashboardMetric, error)
}
