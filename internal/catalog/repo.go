package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
)

// Repository exposes read-only reference data lookups. The engine never
// mutates these tables; they are loaded out of band.
type Repository interface {
	ListZones(ctx context.Context) ([]models.Zone, error)
	FindZone(ctx context.Context, id int64) (*models.Zone, error)
	ListSites(ctx context.Context) ([]models.Site, error)
	FindSiteByCode(ctx context.Context, code string) (*models.Site, error)
	ListSitesByZone(ctx context.Context, zoneID int64) ([]models.Site, error)
	ListFamilies(ctx context.Context) ([]models.Family, error)
	ListServices(ctx context.Context) ([]models.CatalogService, error)
	FindService(ctx context.Context, id int64) (*models.CatalogService, error)
	ListServicesByFamily(ctx context.Context, familyID int64) ([]models.CatalogService, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *repository) FindZone(ctx context.Context, id int64) (*models.Zone, error) {
	var zone models.Zone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *repository) ListSites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	if err := r.db.WithContext(ctx).Preload("Zone").Order("code ASC").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *repository) FindSiteByCode(ctx context.Context, code string) (*models.Site, error) {
	var site models.Site
	err := r.db.WithContext(ctx).
		Preload("Zone").
		First(&site, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *repository) ListSitesByZone(ctx context.Context, zoneID int64) ([]models.Site, error) {
	var sites []models.Site
	err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("code ASC").
		Find(&sites).Error
	if err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *repository) ListFamilies(ctx context.Context) ([]models.Family, error) {
	var families []models.Family
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

func (r *repository) ListServices(ctx context.Context) ([]models.CatalogService, error) {
	var services []models.CatalogService
	if err := r.db.WithContext(ctx).Preload("Family").Order("reference ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repository) FindService(ctx context.Context, id int64) (*models.CatalogService, error) {
	var service models.CatalogService
	err := r.db.WithContext(ctx).
		Preload("Family").
		First(&service, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *repository) ListServicesByFamily(ctx context.Context, familyID int64) ([]models.CatalogService, error) {
	var services []models.CatalogService
	err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("reference ASC").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repository) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}
