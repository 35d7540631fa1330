package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
)

// Service wraps reference data reads with domain error mapping.
type Service interface {
	Zones(ctx context.Context) ([]models.Zone, error)
	Sites(ctx context.Context) ([]models.Site, error)
	SitesByZone(ctx context.Context, zoneID int64) ([]models.Site, error)
	SiteByCode(ctx context.Context, code string) (*models.Site, error)
	Families(ctx context.Context) ([]models.Family, error)
	Services(ctx context.Context) ([]models.CatalogService, error)
	Service(ctx context.Context, id int64) (*models.CatalogService, error)
	ServicesByFamily(ctx context.Context, familyID int64) ([]models.CatalogService, error)
	Suppliers(ctx context.Context) ([]models.Supplier, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Zones(ctx context.Context) ([]models.Zone, error) {
	zones, err := s.repo.ListZones(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list zones")
	}
	return zones, nil
}

func (s *service) Sites(ctx context.Context) ([]models.Site, error) {
	sites, err := s.repo.ListSites(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sites")
	}
	return sites, nil
}

func (s *service) SitesByZone(ctx context.Context, zoneID int64) ([]models.Site, error) {
	if zoneID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone id is required")
	}
	sites, err := s.repo.ListSitesByZone(ctx, zoneID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list zone sites")
	}
	return sites, nil
}

func (s *service) SiteByCode(ctx context.Context, code string) (*models.Site, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "site code is required")
	}
	site, err := s.repo.FindSiteByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("site %s not found", code))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load site")
	}
	return site, nil
}

func (s *service) Families(ctx context.Context) ([]models.Family, error) {
	families, err := s.repo.ListFamilies(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list families")
	}
	return families, nil
}

func (s *service) Services(ctx context.Context) ([]models.CatalogService, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog services")
	}
	return services, nil
}

func (s *service) Service(ctx context.Context, id int64) (*models.CatalogService, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog service id is required")
	}
	svc, err := s.repo.FindService(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("catalog service %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog service")
	}
	return svc, nil
}

func (s *service) ServicesByFamily(ctx context.Context, familyID int64) ([]models.CatalogService, error) {
	if familyID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "family id is required")
	}
	services, err := s.repo.ListServicesByFamily(ctx, familyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list family services")
	}
	return services, nil
}

func (s *service) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	return suppliers, nil
}
