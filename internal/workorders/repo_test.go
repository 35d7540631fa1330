package workorders

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
)

func setupWorkOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS zones (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE
);`,
		`CREATE TABLE IF NOT EXISTS sites (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  code TEXT NOT NULL UNIQUE,
  region TEXT,
  zone_id INTEGER
);`,
		`CREATE TABLE IF NOT EXISTS back_offices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL UNIQUE
);`,
		`CREATE TABLE IF NOT EXISTS coordinators (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL UNIQUE,
  zone_id INTEGER
);`,
		`CREATE TABLE IF NOT EXISTS families (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE
);`,
		`CREATE TABLE IF NOT EXISTS catalog_services (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  family_id INTEGER,
  reference TEXT NOT NULL,
  description TEXT,
  unit TEXT,
  type TEXT,
  unit_price NUMERIC NOT NULL DEFAULT 0,
  remark TEXT,
  technical_model TEXT,
  material_type TEXT,
  specification TEXT,
  technical_family TEXT
);`,
		`CREATE TABLE IF NOT EXISTS work_orders (
  number TEXT PRIMARY KEY,
  project_division TEXT,
  project_code TEXT,
  zone_id INTEGER,
  site_id INTEGER,
  go_date DATE,
  back_office_id INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS work_order_lines (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  work_order_number TEXT NOT NULL,
  line_number INTEGER,
  family TEXT,
  catalog_service_id INTEGER,
  coordinator_id INTEGER,
  validated_qty INTEGER,
  supplier TEXT,
  realized_qty NUMERIC NOT NULL DEFAULT 0,
  in_progress_qty NUMERIC NOT NULL DEFAULT 0,
  planned_date DATETIME,
  go_date DATE,
  start_date DATETIME,
  end_date DATETIME,
  realization_date DATETIME,
  realization_status TEXT,
  tech_reception_date DATETIME,
  tech_reception_status TEXT,
  pf_date DATETIME,
  system_reception_date DATETIME,
  system_reception_status TEXT,
  remark TEXT,
  reception_delay_days INTEGER,
  proof_file_id INTEGER
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newWorkOrderUser(t *testing.T, db *gorm.DB, email string, role enums.UserRole) *models.User {
	t.Helper()

	user := &models.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedWorkOrder(t *testing.T, db *gorm.DB, number string, backOfficeID *int64, lines []models.WorkOrderLine) *models.WorkOrder {
	t.Helper()

	workOrder := &models.WorkOrder{
		Number:       number,
		ProjectCode:  "PRJ-77",
		BackOfficeID: backOfficeID,
		Lines:        lines,
	}
	require.NoError(t, db.Create(workOrder).Error)
	return workOrder
}

func TestRepositoryFindWorkOrder_preloads(t *testing.T) {
	db := setupWorkOrdersTestDB(t)
	repo := NewRepository(db)

	boUser := newWorkOrderUser(t, db, "bo@samsic.fr", enums.UserRoleBackOffice)
	backOffice := &models.BackOffice{UserID: boUser.ID}
	require.NoError(t, db.Create(backOffice).Error)

	catalogService := &models.CatalogService{Reference: "SVC-1", UnitPrice: decimal.NewFromInt(100)}
	require.NoError(t, db.Create(catalogService).Error)

	seedWorkOrder(t, db, "OT-PRE001", &backOffice.ID, []models.WorkOrderLine{
		{CatalogServiceID: &catalogService.ID},
	})

	workOrder, err := repo.FindWorkOrder(context.Background(), "OT-PRE001")
	require.NoError(t, err)
	require.NotNil(t, workOrder.BackOffice)
	require.NotNil(t, workOrder.BackOffice.User)
	assert.Equal(t, "bo@samsic.fr", workOrder.BackOffice.User.Email)
	require.Len(t, workOrder.Lines, 1)
	require.NotNil(t, workOrder.Lines[0].CatalogService)
	assert.Equal(t, "SVC-1", workOrder.Lines[0].CatalogService.Reference)

	_, err = repo.FindWorkOrder(context.Background(), "OT-MISSING")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryWorkOrderNumberExists(t *testing.T) {
	db := setupWorkOrdersTestDB(t)
	repo := NewRepository(db)

	seedWorkOrder(t, db, "OT-EXIST1", nil, nil)

	taken, err := repo.WorkOrderNumberExists(context.Background(), "OT-EXIST1")
	require.NoError(t, err)
	assert.True(t, taken)

	free, err := repo.WorkOrderNumberExists(context.Background(), "OT-FREE01")
	require.NoError(t, err)
	assert.False(t, free)
}

func TestRepositoryListLinesForBackOffice(t *testing.T) {
	db := setupWorkOrdersTestDB(t)
	repo := NewRepository(db)

	boUser := newWorkOrderUser(t, db, "bo@samsic.fr", enums.UserRoleBackOffice)
	backOffice := &models.BackOffice{UserID: boUser.ID}
	require.NoError(t, db.Create(backOffice).Error)

	otherUser := newWorkOrderUser(t, db, "other@samsic.fr", enums.UserRoleBackOffice)
	otherBackOffice := &models.BackOffice{UserID: otherUser.ID}
	require.NoError(t, db.Create(otherBackOffice).Error)

	catalogService := &models.CatalogService{Reference: "SVC-1", UnitPrice: decimal.NewFromInt(100)}
	require.NoError(t, db.Create(catalogService).Error)

	seedWorkOrder(t, db, "OT-MINE01", &backOffice.ID, []models.WorkOrderLine{
		{CatalogServiceID: &catalogService.ID},
		{CatalogServiceID: &catalogService.ID},
	})
	seedWorkOrder(t, db, "OT-OTHER1", &otherBackOffice.ID, []models.WorkOrderLine{
		{CatalogServiceID: &catalogService.ID},
	})

	lines, err := repo.ListLinesForBackOffice(context.Background(), backOffice.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, "OT-MINE01", line.WorkOrderNumber)
		require.NotNil(t, line.CatalogService)
	}
}

func TestRepositoryUpdateWorkOrderFields_partial(t *testing.T) {
	db := setupWorkOrdersTestDB(t)
	repo := NewRepository(db)

	seedWorkOrder(t, db, "OT-UPD001", nil, nil)

	err := repo.UpdateWorkOrderFields(context.Background(), "OT-UPD001", map[string]any{
		"project_division": "Fibre",
	})
	require.NoError(t, err)

	var reloaded models.WorkOrder
	require.NoError(t, db.First(&reloaded, "number = ?", "OT-UPD001").Error)
	assert.Equal(t, "Fibre", reloaded.ProjectDivision)
	assert.Equal(t, "PRJ-77", reloaded.ProjectCode)
}

func TestRepositoryDeleteLines(t *testing.T) {
	db := setupWorkOrdersTestDB(t)
	repo := NewRepository(db)

	catalogService := &models.CatalogService{Reference: "SVC-1"}
	require.NoError(t, db.Create(catalogService).Error)

	workOrder := seedWorkOrder(t, db, "OT-DEL001", nil, []models.WorkOrderLine{
		{CatalogServiceID: &catalogService.ID},
		{CatalogServiceID: &catalogService.ID},
		{CatalogServiceID: &catalogService.ID},
	})

	require.NoError(t, repo.DeleteLines(context.Background(), []int64{workOrder.Lines[0].ID, workOrder.Lines[2].ID}))

	var remaining []models.WorkOrderLine
	require.NoError(t, db.Where("work_order_number = ?", "OT-DEL001").Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, workOrder.Lines[1].ID, remaining[0].ID)

	// no-op on empty slice
	require.NoError(t, repo.DeleteLines(context.Background(), nil))
}
