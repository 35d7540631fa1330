package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
)

type fakeSweepRepo struct {
	realizedAwaitingTech []models.TrackingRecord
	techAwaitingSystem   []models.TrackingRecord
	existingAlerts       map[int64][]enums.AlertKind
	orders               map[string]*models.PurchaseOrder
	leads                []models.ProjectLead

	createdAlerts []models.DelayAlert
	listErr       error
}

func (f *fakeSweepRepo) ListRealizedAwaitingTech(ctx context.Context, tx *gorm.DB) ([]models.TrackingRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.realizedAwaitingTech, nil
}

func (f *fakeSweepRepo) ListTechAwaitingSystem(ctx context.Context, tx *gorm.DB) ([]models.TrackingRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.techAwaitingSystem, nil
}

func (f *fakeSweepRepo) AlertExists(ctx context.Context, tx *gorm.DB, recordID int64, kind enums.AlertKind) (bool, error) {
	for _, existing := range f.existingAlerts[recordID] {
		if existing == kind {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSweepRepo) CreateAlert(ctx context.Context, tx *gorm.DB, alert *models.DelayAlert) error {
	f.createdAlerts = append(f.createdAlerts, *alert)
	return nil
}

func (f *fakeSweepRepo) FindOrderForLineItem(ctx context.Context, tx *gorm.DB, lineItemID string) (*models.PurchaseOrder, error) {
	order, ok := f.orders[lineItemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeSweepRepo) ListProjectLeads(ctx context.Context, tx *gorm.DB) ([]models.ProjectLead, error) {
	return f.leads, nil
}

type sweepFakeTxRunner struct{}

func (sweepFakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type sweepRecordedNotice struct {
	userID  int64
	typ     enums.NotificationType
	message string
}

type fakeSweepNotifier struct {
	notices []sweepRecordedNotice
}

func (f *fakeSweepNotifier) Notify(ctx context.Context, userID int64, typ enums.NotificationType, message string) {
	f.notices = append(f.notices, sweepRecordedNotice{userID: userID, typ: typ, message: message})
}

func stalledRecord(id int64, lineItemID string, realized time.Time) models.TrackingRecord {
	return models.TrackingRecord{
		ID:              id,
		LineItemID:      lineItemID,
		RealizationDate: &realized,
		Coordinator:     &models.Coordinator{ID: 2, User: &models.User{ID: 31}},
	}
}

func orderOwnedBy(userID int64) *models.PurchaseOrder {
	return &models.PurchaseOrder{
		Number:     "BC-SWP001",
		BackOffice: &models.BackOffice{ID: 4, User: &models.User{ID: userID}},
	}
}

func newRealizationDelayJob(t *testing.T, repo *fakeSweepRepo, notifier *fakeSweepNotifier) *realizationDelayJob {
	t.Helper()
	jobIface, err := NewRealizationDelayJob(RealizationDelayJobParams{
		Logger:     testLogger(),
		DB:         sweepFakeTxRunner{},
		Repository: repo,
		Notifier:   notifier,
	})
	if err != nil {
		t.Fatalf("NewRealizationDelayJob: %v", err)
	}
	job, ok := jobIface.(*realizationDelayJob)
	if !ok {
		t.Fatalf("expected realizationDelayJob, got %T", jobIface)
	}
	return job
}

func TestRealizationDelayJobFlagsStalledRecords(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	repo := &fakeSweepRepo{
		realizedAwaitingTech: []models.TrackingRecord{
			stalledRecord(10, "PST-OLD", now.AddDate(0, 0, -8)),
			stalledRecord(11, "PST-NEW", now.AddDate(0, 0, -2)),
		},
		orders: map[string]*models.PurchaseOrder{"PST-OLD": orderOwnedBy(17)},
	}
	notifier := &fakeSweepNotifier{}
	job := newRealizationDelayJob(t, repo, notifier)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(repo.createdAlerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(repo.createdAlerts))
	}
	alert := repo.createdAlerts[0]
	if alert.TrackingRecordID != 10 || alert.Kind != enums.AlertKindRealizationDelay {
		t.Fatalf("unexpected alert %+v", alert)
	}

	if len(notifier.notices) != 2 {
		t.Fatalf("expected coordinator and back office notices, got %d", len(notifier.notices))
	}
	if notifier.notices[0].userID != 31 || notifier.notices[1].userID != 17 {
		t.Fatalf("unexpected recipients %+v", notifier.notices)
	}
	for _, notice := range notifier.notices {
		if notice.typ != enums.NotificationTypeDelayAlert {
			t.Fatalf("expected delay alert type, got %s", notice.typ)
		}
	}
}

func TestRealizationDelayJobDoesNotReAlert(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	repo := &fakeSweepRepo{
		realizedAwaitingTech: []models.TrackingRecord{
			stalledRecord(10, "PST-OLD", now.AddDate(0, 0, -8)),
		},
		existingAlerts: map[int64][]enums.AlertKind{
			10: {enums.AlertKindRealizationDelay},
		},
		orders: map[string]*models.PurchaseOrder{"PST-OLD": orderOwnedBy(17)},
	}
	notifier := &fakeSweepNotifier{}
	job := newRealizationDelayJob(t, repo, notifier)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.createdAlerts) != 0 || len(notifier.notices) != 0 {
		t.Fatalf("already alerted record must be skipped: %d alerts, %d notices",
			len(repo.createdAlerts), len(notifier.notices))
	}
}

func TestRealizationDelayJobContinuesWithoutOrder(t *testing.T) {
	// a record whose order lookup fails still gets its alert and the
	// coordinator notice
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	repo := &fakeSweepRepo{
		realizedAwaitingTech: []models.TrackingRecord{
			stalledRecord(10, "PST-ORPHAN", now.AddDate(0, 0, -9)),
		},
	}
	notifier := &fakeSweepNotifier{}
	job := newRealizationDelayJob(t, repo, notifier)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.createdAlerts) != 1 {
		t.Fatalf("expected alert despite missing order, got %d", len(repo.createdAlerts))
	}
	if len(notifier.notices) != 1 || notifier.notices[0].userID != 31 {
		t.Fatalf("expected only the coordinator notice, got %+v", notifier.notices)
	}
}

func TestRealizationDelayJobPropagatesListErrors(t *testing.T) {
	repo := &fakeSweepRepo{listErr: errors.New("boom")}
	job := newRealizationDelayJob(t, repo, &fakeSweepNotifier{})

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
