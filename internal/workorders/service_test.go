package workorders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/logger"
)

type fakeRepository struct {
	createWorkOrderFn    func(ctx context.Context, workOrder *models.WorkOrder) error
	updateWorkOrderFn    func(ctx context.Context, number string, updates map[string]any) error
	findWorkOrderFn      func(ctx context.Context, number string) (*models.WorkOrder, error)
	listWorkOrdersFn     func(ctx context.Context) ([]models.WorkOrder, error)
	listByZoneFn         func(ctx context.Context, zoneID int64) ([]models.WorkOrder, error)
	listByBackOfficeFn   func(ctx context.Context, backOfficeID int64) ([]models.WorkOrder, error)
	numberExistsFn       func(ctx context.Context, number string) (bool, error)
	deleteWorkOrderFn    func(ctx context.Context, number string) error
	createLinesFn        func(ctx context.Context, lines []models.WorkOrderLine) error
	updateLineFn         func(ctx context.Context, id int64, updates map[string]any) error
	deleteLinesFn        func(ctx context.Context, ids []int64) error
	listLinesFn          func(ctx context.Context, backOfficeID int64) ([]models.WorkOrderLine, error)
	findOrderFn          func(ctx context.Context, number string) (*models.PurchaseOrder, error)
	updateOrderFn        func(ctx context.Context, number string, updates map[string]any) error
	createTrackingFn     func(ctx context.Context, records []models.TrackingRecord) error
	findZoneFn           func(ctx context.Context, id int64) (*models.Zone, error)
	findSiteByCodeFn     func(ctx context.Context, code string) (*models.Site, error)
	findBackOfficeFn     func(ctx context.Context, id int64) (*models.BackOffice, error)
	findBOEmailFn        func(ctx context.Context, email string) (*models.BackOffice, error)
	findCoordinatorFn    func(ctx context.Context, id int64) (*models.Coordinator, error)
	findCoordEmailFn     func(ctx context.Context, email string) (*models.Coordinator, error)
	firstCoordinatorFn   func(ctx context.Context, zoneID int64) (*models.Coordinator, error)
	findCatalogServiceFn func(ctx context.Context, id int64) (*models.CatalogService, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) CreateWorkOrder(ctx context.Context, workOrder *models.WorkOrder) error {
	if f.createWorkOrderFn != nil {
		return f.createWorkOrderFn(ctx, workOrder)
	}
	return nil
}

func (f *fakeRepository) UpdateWorkOrderFields(ctx context.Context, number string, updates map[string]any) error {
	if f.updateWorkOrderFn != nil {
		return f.updateWorkOrderFn(ctx, number, updates)
	}
	return nil
}

func (f *fakeRepository) FindWorkOrder(ctx context.Context, number string) (*models.WorkOrder, error) {
	if f.findWorkOrderFn != nil {
		return f.findWorkOrderFn(ctx, number)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListWorkOrders(ctx context.Context) ([]models.WorkOrder, error) {
	if f.listWorkOrdersFn != nil {
		return f.listWorkOrdersFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) ListWorkOrdersByZone(ctx context.Context, zoneID int64) ([]models.WorkOrder, error) {
	if f.listByZoneFn != nil {
		return f.listByZoneFn(ctx, zoneID)
	}
	return nil, nil
}

func (f *fakeRepository) ListWorkOrdersByBackOffice(ctx context.Context, backOfficeID int64) ([]models.WorkOrder, error) {
	if f.listByBackOfficeFn != nil {
		return f.listByBackOfficeFn(ctx, backOfficeID)
	}
	return nil, nil
}

func (f *fakeRepository) WorkOrderNumberExists(ctx context.Context, number string) (bool, error) {
	if f.numberExistsFn != nil {
		return f.numberExistsFn(ctx, number)
	}
	return false, nil
}

func (f *fakeRepository) DeleteWorkOrder(ctx context.Context, number string) error {
	if f.deleteWorkOrderFn != nil {
		return f.deleteWorkOrderFn(ctx, number)
	}
	return nil
}

func (f *fakeRepository) CreateLines(ctx context.Context, lines []models.WorkOrderLine) error {
	if f.createLinesFn != nil {
		return f.createLinesFn(ctx, lines)
	}
	return nil
}

func (f *fakeRepository) UpdateLineFields(ctx context.Context, id int64, updates map[string]any) error {
	if f.updateLineFn != nil {
		return f.updateLineFn(ctx, id, updates)
	}
	return nil
}

func (f *fakeRepository) DeleteLines(ctx context.Context, ids []int64) error {
	if f.deleteLinesFn != nil {
		return f.deleteLinesFn(ctx, ids)
	}
	return nil
}

func (f *fakeRepository) ListLinesForBackOffice(ctx context.Context, backOfficeID int64) ([]models.WorkOrderLine, error) {
	if f.listLinesFn != nil {
		return f.listLinesFn(ctx, backOfficeID)
	}
	return nil, nil
}

func (f *fakeRepository) FindOrder(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	if f.findOrderFn != nil {
		return f.findOrderFn(ctx, number)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpdateOrderFields(ctx context.Context, number string, updates map[string]any) error {
	if f.updateOrderFn != nil {
		return f.updateOrderFn(ctx, number, updates)
	}
	return nil
}

func (f *fakeRepository) CreateTrackingRecords(ctx context.Context, records []models.TrackingRecord) error {
	if f.createTrackingFn != nil {
		return f.createTrackingFn(ctx, records)
	}
	return nil
}

func (f *fakeRepository) FindZone(ctx context.Context, id int64) (*models.Zone, error) {
	if f.findZoneFn != nil {
		return f.findZoneFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindSiteByCode(ctx context.Context, code string) (*models.Site, error) {
	if f.findSiteByCodeFn != nil {
		return f.findSiteByCodeFn(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindBackOffice(ctx context.Context, id int64) (*models.BackOffice, error) {
	if f.findBackOfficeFn != nil {
		return f.findBackOfficeFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindBackOfficeByEmail(ctx context.Context, email string) (*models.BackOffice, error) {
	if f.findBOEmailFn != nil {
		return f.findBOEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindCoordinator(ctx context.Context, id int64) (*models.Coordinator, error) {
	if f.findCoordinatorFn != nil {
		return f.findCoordinatorFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindCoordinatorByEmail(ctx context.Context, email string) (*models.Coordinator, error) {
	if f.findCoordEmailFn != nil {
		return f.findCoordEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FirstCoordinatorForZone(ctx context.Context, zoneID int64) (*models.Coordinator, error) {
	if f.firstCoordinatorFn != nil {
		return f.firstCoordinatorFn(ctx, zoneID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindCatalogService(ctx context.Context, id int64) (*models.CatalogService, error) {
	if f.findCatalogServiceFn != nil {
		return f.findCatalogServiceFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordedNotice struct {
	userID  int64
	typ     enums.NotificationType
	message string
}

type fakeNotifier struct {
	notices []recordedNotice
}

func (f *fakeNotifier) Notify(ctx context.Context, userID int64, typ enums.NotificationType, message string) {
	f.notices = append(f.notices, recordedNotice{userID: userID, typ: typ, message: message})
}

func newTestService(t *testing.T, repo Repository) (Service, *fakeNotifier) {
	t.Helper()
	notifier := &fakeNotifier{}
	svc, err := NewService(repo, fakeTxRunner{}, notifier, logger.New(logger.Options{Level: zerolog.ErrorLevel}))
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return svc, notifier
}

func int64Ptr(value int64) *int64 { return &value }
func intPtr(value int) *int       { return &value }
func strPtr(value string) *string { return &value }

func TestService_CreateValidation(t *testing.T) {
	svc, _ := newTestService(t, &fakeRepository{})
	catalogID := int64(8)

	if _, err := svc.Create(context.Background(), CreateInput{Lines: []LineInput{{CatalogServiceID: &catalogID}}}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing number, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Number: "OT-ABC123"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing lines, got %v", err)
	}
}

func TestService_CreateRejectsTakenNumber(t *testing.T) {
	repo := &fakeRepository{
		numberExistsFn: func(ctx context.Context, number string) (bool, error) { return true, nil },
	}
	svc, _ := newTestService(t, repo)
	catalogID := int64(8)
	_, err := svc.Create(context.Background(), CreateInput{
		Number: "OT-ABC123",
		Lines:  []LineInput{{CatalogServiceID: &catalogID}},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestService_CreateNotifiesZoneCoordinatorAndBackOffice(t *testing.T) {
	catalogID := int64(8)
	zoneID := int64(3)
	backOfficeID := int64(4)

	var created *models.WorkOrder
	repo := &fakeRepository{
		findZoneFn: func(ctx context.Context, id int64) (*models.Zone, error) {
			return &models.Zone{ID: id, Name: "Nord"}, nil
		},
		findBackOfficeFn: func(ctx context.Context, id int64) (*models.BackOffice, error) {
			return &models.BackOffice{ID: id, User: &models.User{ID: 17}}, nil
		},
		findCatalogServiceFn: func(ctx context.Context, id int64) (*models.CatalogService, error) {
			return &models.CatalogService{ID: id}, nil
		},
		firstCoordinatorFn: func(ctx context.Context, id int64) (*models.Coordinator, error) {
			return &models.Coordinator{ID: 2, User: &models.User{ID: 31}}, nil
		},
		createWorkOrderFn: func(ctx context.Context, workOrder *models.WorkOrder) error {
			created = workOrder
			return nil
		},
	}

	svc, notifier := newTestService(t, repo)
	workOrder, err := svc.Create(context.Background(), CreateInput{
		Number:       "OT-ABC123",
		ProjectCode:  "PRJ-77",
		ZoneID:       &zoneID,
		BackOfficeID: &backOfficeID,
		Lines:        []LineInput{{CatalogServiceID: &catalogID, ValidatedQty: intPtr(10)}},
	})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if workOrder.Number != "OT-ABC123" || created == nil || len(created.Lines) != 1 {
		t.Fatalf("unexpected created work order %+v", created)
	}
	if len(notifier.notices) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(notifier.notices))
	}
	if notifier.notices[0].userID != 31 || notifier.notices[1].userID != 17 {
		t.Fatalf("unexpected recipients %+v", notifier.notices)
	}
}

func TestService_LinkToOrderCopiesLineState(t *testing.T) {
	catalogID := int64(8)
	zoneID := int64(3)
	coordinatorID := int64(2)
	realized := decimal.NewFromInt(15)
	realizedAt := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	status := "Realise"
	remark := "done in one visit"
	delay := 2
	proofID := int64(44)

	workOrder := &models.WorkOrder{
		Number:      "OT-ABC123",
		ProjectCode: "PRJ-77",
		ZoneID:      &zoneID,
		Lines: []models.WorkOrderLine{
			{
				ID:                 1,
				CatalogServiceID:   &catalogID,
				CoordinatorID:      &coordinatorID,
				ValidatedQty:       intPtr(15),
				RealizedQty:        realized,
				RealizationDate:    &realizedAt,
				RealizationStatus:  &status,
				Remark:             &remark,
				ReceptionDelayDays: &delay,
				ProofFileID:        &proofID,
			},
		},
	}
	order := &models.PurchaseOrder{
		Number:      "BC-LINK01",
		ProjectCode: "PRJ-77",
		BackOffice:  &models.BackOffice{ID: 4, User: &models.User{ID: 17}},
		LineItems:   []models.LineItem{{ID: "PST-L1", CatalogServiceID: &catalogID}},
	}

	var (
		orderUpdates map[string]any
		records      []models.TrackingRecord
		deleted      string
	)
	repo := &fakeRepository{
		findWorkOrderFn: func(ctx context.Context, number string) (*models.WorkOrder, error) {
			return workOrder, nil
		},
		findOrderFn: func(ctx context.Context, number string) (*models.PurchaseOrder, error) {
			return order, nil
		},
		updateOrderFn: func(ctx context.Context, number string, updates map[string]any) error {
			orderUpdates = updates
			return nil
		},
		createTrackingFn: func(ctx context.Context, recs []models.TrackingRecord) error {
			records = recs
			return nil
		},
		deleteWorkOrderFn: func(ctx context.Context, number string) error {
			deleted = number
			return nil
		},
		firstCoordinatorFn: func(ctx context.Context, id int64) (*models.Coordinator, error) {
			return &models.Coordinator{ID: 2, User: &models.User{ID: 31}}, nil
		},
	}

	svc, notifier := newTestService(t, repo)
	if err := svc.LinkToOrder(context.Background(), "OT-ABC123", "BC-LINK01"); err != nil {
		t.Fatalf("unexpected link error: %v", err)
	}

	if orderUpdates["work_order_number"] != "OT-ABC123" || orderUpdates["from_work_order"] != true {
		t.Fatalf("expected order linked to work order, got %v", orderUpdates)
	}
	if deleted != "OT-ABC123" {
		t.Fatalf("expected work order deleted, got %q", deleted)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 tracking record, got %d", len(records))
	}

	record := records[0]
	if record.LineItemID != "PST-L1" {
		t.Fatalf("unexpected line item %s", record.LineItemID)
	}
	if record.CoordinatorID == nil || *record.CoordinatorID != coordinatorID {
		t.Fatalf("coordinator not carried over")
	}
	if !record.RealizedQty.Equal(realized) {
		t.Fatalf("realized qty not carried over")
	}
	if record.RealizationStatus == nil || *record.RealizationStatus != status {
		t.Fatalf("status not carried over")
	}
	if record.ProofFileID == nil || *record.ProofFileID != proofID {
		t.Fatalf("proof file not carried over")
	}
	if record.ZoneID == nil || *record.ZoneID != zoneID {
		t.Fatalf("zone not assigned from work order")
	}

	if len(notifier.notices) != 2 || notifier.notices[0].userID != 17 || notifier.notices[1].userID != 31 {
		t.Fatalf("unexpected notices %+v", notifier.notices)
	}
}

func TestService_LinkToOrderRejectsProjectCodeMismatch(t *testing.T) {
	repo := &fakeRepository{
		findWorkOrderFn: func(ctx context.Context, number string) (*models.WorkOrder, error) {
			return &models.WorkOrder{Number: number, ProjectCode: "PRJ-77"}, nil
		},
		findOrderFn: func(ctx context.Context, number string) (*models.PurchaseOrder, error) {
			return &models.PurchaseOrder{Number: number, ProjectCode: "PRJ-88"}, nil
		},
	}

	svc, _ := newTestService(t, repo)
	err := svc.LinkToOrder(context.Background(), "OT-ABC123", "BC-LINK01")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "different project codes") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestService_LinkToOrderAllOrNothingMatching(t *testing.T) {
	matchedID := int64(8)
	unmatchedID := int64(9)
	workOrder := &models.WorkOrder{
		Number:      "OT-ABC123",
		ProjectCode: "PRJ-77",
		Lines: []models.WorkOrderLine{
			{ID: 1, CatalogServiceID: &matchedID},
			{ID: 2, CatalogServiceID: &unmatchedID},
		},
	}
	order := &models.PurchaseOrder{
		Number:      "BC-LINK02",
		ProjectCode: "PRJ-77",
		LineItems:   []models.LineItem{{ID: "PST-L1", CatalogServiceID: &matchedID}},
	}

	var wrote bool
	repo := &fakeRepository{
		findWorkOrderFn: func(ctx context.Context, number string) (*models.WorkOrder, error) {
			return workOrder, nil
		},
		findOrderFn: func(ctx context.Context, number string) (*models.PurchaseOrder, error) {
			return order, nil
		},
		updateOrderFn: func(ctx context.Context, number string, updates map[string]any) error {
			wrote = true
			return nil
		},
		createTrackingFn: func(ctx context.Context, recs []models.TrackingRecord) error {
			wrote = true
			return nil
		},
	}

	svc, _ := newTestService(t, repo)
	err := svc.LinkToOrder(context.Background(), "OT-ABC123", "BC-LINK02")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no matching line item for catalog service 9") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if wrote {
		t.Fatalf("no writes may happen when any line is unmatched")
	}
}

func TestService_MetricsForBackOffice(t *testing.T) {
	price := decimal.NewFromInt(100)
	realized := "Realise"
	received := "Receptionne"
	lines := []models.WorkOrderLine{
		{ValidatedQty: intPtr(10), CatalogService: &models.CatalogService{UnitPrice: price}},
		{ValidatedQty: intPtr(5), RealizationStatus: &realized, CatalogService: &models.CatalogService{UnitPrice: price}},
		{ValidatedQty: intPtr(2), TechReceptionStatus: &received, CatalogService: &models.CatalogService{UnitPrice: price}},
		{CatalogService: &models.CatalogService{UnitPrice: price}}, // no validated qty, skipped
	}

	repo := &fakeRepository{
		findBOEmailFn: func(ctx context.Context, email string) (*models.BackOffice, error) {
			return &models.BackOffice{ID: 4}, nil
		},
		listLinesFn: func(ctx context.Context, backOfficeID int64) ([]models.WorkOrderLine, error) {
			return lines, nil
		},
	}

	svc, _ := newTestService(t, repo)
	metrics, err := svc.MetricsForBackOffice(context.Background(), "bo@samsic.fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !metrics.TotalCost.Equal(decimal.NewFromInt(1700)) {
		t.Fatalf("expected total 1700, got %s", metrics.TotalCost)
	}
	if !metrics.RealizedCost.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected realized 500, got %s", metrics.RealizedCost)
	}
	if !metrics.ReceivedCost.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected received 200, got %s", metrics.ReceivedCost)
	}
}

func TestService_ListForUser(t *testing.T) {
	zoneID := int64(3)
	repo := &fakeRepository{
		findCoordEmailFn: func(ctx context.Context, email string) (*models.Coordinator, error) {
			if email == "coord@samsic.fr" {
				return &models.Coordinator{ID: 2, ZoneID: &zoneID}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		findBOEmailFn: func(ctx context.Context, email string) (*models.BackOffice, error) {
			if email == "bo@samsic.fr" {
				return &models.BackOffice{ID: 4}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		listByZoneFn: func(ctx context.Context, id int64) ([]models.WorkOrder, error) {
			return []models.WorkOrder{{Number: "OT-ZONE01"}}, nil
		},
		listByBackOfficeFn: func(ctx context.Context, id int64) ([]models.WorkOrder, error) {
			return []models.WorkOrder{{Number: "OT-BO0001"}}, nil
		},
	}

	svc, _ := newTestService(t, repo)

	byZone, err := svc.ListForUser(context.Background(), "coord@samsic.fr")
	if err != nil || len(byZone) != 1 || byZone[0].Number != "OT-ZONE01" {
		t.Fatalf("unexpected coordinator result %v %v", byZone, err)
	}

	byBackOffice, err := svc.ListForUser(context.Background(), "bo@samsic.fr")
	if err != nil || len(byBackOffice) != 1 || byBackOffice[0].Number != "OT-BO0001" {
		t.Fatalf("unexpected back office result %v %v", byBackOffice, err)
	}

	none, err := svc.ListForUser(context.Background(), "lead@samsic.fr")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty result for other roles, got %v %v", none, err)
	}
}

func TestService_UpdateBulkContinuesOnFailure(t *testing.T) {
	repo := &fakeRepository{
		findWorkOrderFn: func(ctx context.Context, number string) (*models.WorkOrder, error) {
			if number == "OT-MISSING" {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.WorkOrder{Number: number}, nil
		},
	}

	svc, _ := newTestService(t, repo)
	items := []BulkUpdate{
		{Number: "OT-OK0001", Input: UpdateInput{Lines: []LineInput{{ID: int64Ptr(1)}}}},
		{Number: "OT-MISSING", Input: UpdateInput{Lines: []LineInput{{ID: int64Ptr(1)}}}},
		{Input: UpdateInput{Lines: []LineInput{{ID: int64Ptr(1)}}}},
	}

	// the OK item references line 1 which the fake returns without lines,
	// so it fails validation too; only the shapes matter here
	results, err := svc.UpdateBulk(context.Background(), items)
	if err == nil {
		t.Fatalf("expected combined error")
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].Err == nil || results[2].Err == nil {
		t.Fatalf("expected failures recorded: %+v", results)
	}
	if !strings.Contains(err.Error(), "OT-MISSING") {
		t.Fatalf("combined error should name the failed work order: %v", err)
	}
}

func TestService_UpdateSparseHeaderAndLines(t *testing.T) {
	existing := &models.WorkOrder{
		Number: "OT-UPD001",
		Lines:  []models.WorkOrderLine{{ID: 1}, {ID: 2}},
	}

	var (
		headerUpdates map[string]any
		lineID        int64
		lineUpdates   map[string]any
		deletedLines  []int64
	)
	repo := &fakeRepository{
		findWorkOrderFn: func(ctx context.Context, number string) (*models.WorkOrder, error) {
			return existing, nil
		},
		updateWorkOrderFn: func(ctx context.Context, number string, updates map[string]any) error {
			headerUpdates = updates
			return nil
		},
		updateLineFn: func(ctx context.Context, id int64, updates map[string]any) error {
			lineID = id
			lineUpdates = updates
			return nil
		},
		deleteLinesFn: func(ctx context.Context, ids []int64) error {
			deletedLines = ids
			return nil
		},
	}

	svc, _ := newTestService(t, repo)
	_, err := svc.Update(context.Background(), "OT-UPD001", UpdateInput{
		ProjectCode: strPtr("PRJ-99"),
		Lines: []LineInput{
			{ID: int64Ptr(1), ValidatedQty: intPtr(20), Remark: strPtr("revised")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}

	if headerUpdates["project_code"] != "PRJ-99" || len(headerUpdates) != 1 {
		t.Fatalf("unexpected header updates %v", headerUpdates)
	}
	if lineID != 1 || lineUpdates["validated_qty"] != 20 || lineUpdates["remark"] != "revised" {
		t.Fatalf("unexpected line updates %d %v", lineID, lineUpdates)
	}
	if len(deletedLines) != 1 || deletedLines[0] != 2 {
		t.Fatalf("expected line 2 removed, got %v", deletedLines)
	}
}
