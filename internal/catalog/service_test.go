package catalog

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
)

type fakeRepository struct {
	listZonesFn     func(ctx context.Context) ([]models.Zone, error)
	findSiteFn      func(ctx context.Context, code string) (*models.Site, error)
	findServiceFn   func(ctx context.Context, id int64) (*models.CatalogService, error)
	listByFamilyFn  func(ctx context.Context, familyID int64) ([]models.CatalogService, error)
	listSuppliersFn func(ctx context.Context) ([]models.Supplier, error)
}

func (f *fakeRepository) ListZones(ctx context.Context) ([]models.Zone, error) {
	if f.listZonesFn != nil {
		return f.listZonesFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) FindZone(ctx context.Context, id int64) (*models.Zone, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListSites(ctx context.Context) ([]models.Site, error) {
	return nil, nil
}

func (f *fakeRepository) FindSiteByCode(ctx context.Context, code string) (*models.Site, error) {
	if f.findSiteFn != nil {
		return f.findSiteFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListSitesByZone(ctx context.Context, zoneID int64) ([]models.Site, error) {
	return nil, nil
}

func (f *fakeRepository) ListFamilies(ctx context.Context) ([]models.Family, error) {
	return nil, nil
}

func (f *fakeRepository) ListServices(ctx context.Context) ([]models.CatalogService, error) {
	return nil, nil
}

func (f *fakeRepository) FindService(ctx context.Context, id int64) (*models.CatalogService, error) {
	if f.findServiceFn != nil {
		return f.findServiceFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListServicesByFamily(ctx context.Context, familyID int64) ([]models.CatalogService, error) {
	if f.listByFamilyFn != nil {
		return f.listByFamilyFn(ctx, familyID)
	}
	return nil, nil
}

func (f *fakeRepository) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	if f.listSuppliersFn != nil {
		return f.listSuppliersFn(ctx)
	}
	return nil, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return svc
}

func TestService_Zones(t *testing.T) {
	repo := &fakeRepository{
		listZonesFn: func(ctx context.Context) ([]models.Zone, error) {
			return []models.Zone{{ID: 1, Name: "Nord"}, {ID: 2, Name: "Sud"}}, nil
		},
	}

	svc := newTestService(t, repo)
	zones, err := svc.Zones(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
}

func TestService_SiteByCode(t *testing.T) {
	repo := &fakeRepository{
		findSiteFn: func(ctx context.Context, code string) (*models.Site, error) {
			if code == "SIT-001" {
				return &models.Site{ID: 1, Code: code}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := newTestService(t, repo)
	site, err := svc.SiteByCode(context.Background(), "SIT-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site.Code != "SIT-001" {
		t.Fatalf("unexpected site %+v", site)
	}

	if _, err := svc.SiteByCode(context.Background(), "SIT-404"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.SiteByCode(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ServiceLookup(t *testing.T) {
	repo := &fakeRepository{
		findServiceFn: func(ctx context.Context, id int64) (*models.CatalogService, error) {
			if id == 8 {
				return &models.CatalogService{ID: 8, Reference: "REF-008"}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := newTestService(t, repo)
	got, err := svc.Service(context.Background(), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Reference != "REF-008" {
		t.Fatalf("unexpected service %+v", got)
	}

	if _, err := svc.Service(context.Background(), 9); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Service(context.Background(), 0); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ServicesByFamilyValidation(t *testing.T) {
	svc := newTestService(t, &fakeRepository{})
	if _, err := svc.ServicesByFamily(context.Background(), -1); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
