package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ali-desu/Samsic-projet-stage/api/controllers"
	"github.com/Ali-desu/Samsic-projet-stage/api/middleware"
	"github.com/Ali-desu/Samsic-projet-stage/internal/catalog"
	"github.com/Ali-desu/Samsic-projet-stage/internal/notifications"
	"github.com/Ali-desu/Samsic-projet-stage/internal/orders"
	"github.com/Ali-desu/Samsic-projet-stage/internal/reports"
	"github.com/Ali-desu/Samsic-projet-stage/internal/tracking"
	"github.com/Ali-desu/Samsic-projet-stage/internal/workorders"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/config"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/db"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

type redisPinger interface {
	Ping(ctx context.Context) error
}

// Services bundles everything the router mounts.
type Services struct {
	Orders        orders.Service
	WorkOrders    workorders.Service
	Tracking      tracking.Service
	Reports       reports.Service
	Notifications notifications.Service
	Catalog       catalog.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redisPinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	writerRoles := []enums.UserRole{enums.UserRoleBackOffice, enums.UserRoleAdmin}
	trackerRoles := []enums.UserRole{enums.UserRoleCoordinator, enums.UserRoleBackOffice, enums.UserRoleAdmin}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/{orderNumber}", controllers.GetOrder(svcs.Orders, logg))
			r.Get("/{orderNumber}/services", controllers.OrderServices(svcs.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, writerRoles...))
				r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
				r.Put("/{orderNumber}", controllers.UpdateOrder(svcs.Orders, logg))
				r.Delete("/{orderNumber}", controllers.DeleteOrder(svcs.Orders, logg))
				r.Post("/{orderNumber}/tracking", controllers.CreateTrackingRecords(svcs.Tracking, logg))
			})
		})

		r.Route("/work-orders", func(r chi.Router) {
			r.Get("/", controllers.ListWorkOrders(svcs.WorkOrders, logg))
			r.Get("/metrics", controllers.WorkOrderMetrics(svcs.WorkOrders, logg))
			r.Get("/{workOrderNumber}", controllers.GetWorkOrder(svcs.WorkOrders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, writerRoles...))
				r.Post("/", controllers.CreateWorkOrder(svcs.WorkOrders, logg))
				r.Put("/bulk", controllers.BulkUpdateWorkOrders(svcs.WorkOrders, logg))
				r.Put("/{workOrderNumber}", controllers.UpdateWorkOrder(svcs.WorkOrders, logg))
				r.Post("/{workOrderNumber}/link", controllers.LinkWorkOrder(svcs.WorkOrders, logg))
			})
		})

		r.Route("/tracking", func(r chi.Router) {
			r.Get("/", controllers.ListTrackingRecords(svcs.Tracking, logg))
			r.Get("/stalled", controllers.ListStalledTrackingRecords(svcs.Tracking, logg))
			r.Get("/{recordId}", controllers.GetTrackingRecord(svcs.Tracking, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, trackerRoles...))
				r.Put("/bulk", controllers.BulkUpdateTrackingRecords(svcs.Tracking, logg))
				r.Put("/{recordId}", controllers.UpdateTrackingRecord(svcs.Tracking, logg))
				r.Post("/{recordId}/proof", controllers.AttachTrackingProof(svcs.Tracking, logg))
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, writerRoles...))
			r.Get("/orders", controllers.OrderSummariesReport(svcs.Reports, logg))
			r.Get("/lines", controllers.LineDetailsReport(svcs.Reports, logg))
			r.Get("/dashboard", controllers.FamilyDashboard(svcs.Reports, logg))
			r.Get("/dashboard/metrics", controllers.DashboardMetricsRange(svcs.Reports, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/zones", controllers.ListZones(svcs.Catalog, logg))
			r.Get("/sites", controllers.ListSites(svcs.Catalog, logg))
			r.Get("/sites/{siteCode}", controllers.GetSiteByCode(svcs.Catalog, logg))
			r.Get("/families", controllers.ListFamilies(svcs.Catalog, logg))
			r.Get("/services", controllers.ListCatalogServices(svcs.Catalog, logg))
			r.Get("/services/{serviceId}", controllers.GetCatalogService(svcs.Catalog, logg))
			r.Get("/suppliers", controllers.ListSuppliers(svcs.Catalog, logg))
		})
	})

	return r
}
