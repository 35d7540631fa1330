package cron

import (
	"context"
	"testing"
	"time"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
)

func techStalledRecord(id int64, lineItemID string, techReceived time.Time) models.TrackingRecord {
	return models.TrackingRecord{
		ID:                id,
		LineItemID:        lineItemID,
		TechReceptionDate: &techReceived,
	}
}

func newTechReceptionDelayJob(t *testing.T, repo *fakeSweepRepo, notifier *fakeSweepNotifier) *techReceptionDelayJob {
	t.Helper()
	jobIface, err := NewTechReceptionDelayJob(TechReceptionDelayJobParams{
		Logger:     testLogger(),
		DB:         sweepFakeTxRunner{},
		Repository: repo,
		Notifier:   notifier,
	})
	if err != nil {
		t.Fatalf("NewTechReceptionDelayJob: %v", err)
	}
	job, ok := jobIface.(*techReceptionDelayJob)
	if !ok {
		t.Fatalf("expected techReceptionDelayJob, got %T", jobIface)
	}
	return job
}

func TestTechReceptionDelayJobNotifiesBackOfficeAndLeads(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	repo := &fakeSweepRepo{
		techAwaitingSystem: []models.TrackingRecord{
			techStalledRecord(20, "PST-TECH", now.AddDate(0, 0, -10)),
		},
		orders: map[string]*models.PurchaseOrder{"PST-TECH": orderOwnedBy(17)},
		leads: []models.ProjectLead{
			{ID: 1, User: &models.User{ID: 41}},
			{ID: 2, User: &models.User{ID: 42}},
		},
	}
	notifier := &fakeSweepNotifier{}
	job := newTechReceptionDelayJob(t, repo, notifier)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(repo.createdAlerts) != 1 || repo.createdAlerts[0].Kind != enums.AlertKindTechReceptionDelay {
		t.Fatalf("unexpected alerts %+v", repo.createdAlerts)
	}

	if len(notifier.notices) != 3 {
		t.Fatalf("expected back office and both leads notified, got %d", len(notifier.notices))
	}
	got := map[int64]bool{}
	for _, notice := range notifier.notices {
		got[notice.userID] = true
	}
	for _, want := range []int64{17, 41, 42} {
		if !got[want] {
			t.Fatalf("user %d not notified: %+v", want, notifier.notices)
		}
	}
}

func TestTechReceptionDelayJobDoesNotReAlert(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	repo := &fakeSweepRepo{
		techAwaitingSystem: []models.TrackingRecord{
			techStalledRecord(20, "PST-TECH", now.AddDate(0, 0, -10)),
		},
		existingAlerts: map[int64][]enums.AlertKind{
			20: {enums.AlertKindTechReceptionDelay},
		},
		orders: map[string]*models.PurchaseOrder{"PST-TECH": orderOwnedBy(17)},
		leads: []models.ProjectLead{
			{ID: 1, User: &models.User{ID: 41}},
		},
	}
	notifier := &fakeSweepNotifier{}
	job := newTechReceptionDelayJob(t, repo, notifier)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.createdAlerts) != 0 || len(notifier.notices) != 0 {
		t.Fatalf("already alerted record must be skipped: %d alerts, %d notices",
			len(repo.createdAlerts), len(notifier.notices))
	}
}

func TestTechReceptionDelayJobIgnoresFreshRecords(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	repo := &fakeSweepRepo{
		techAwaitingSystem: []models.TrackingRecord{
			techStalledRecord(20, "PST-TECH", now.AddDate(0, 0, -3)),
		},
		orders: map[string]*models.PurchaseOrder{"PST-TECH": orderOwnedBy(17)},
	}
	notifier := &fakeSweepNotifier{}
	job := newTechReceptionDelayJob(t, repo, notifier)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.createdAlerts) != 0 || len(notifier.notices) != 0 {
		t.Fatalf("fresh record must not alert: %d alerts, %d notices",
			len(repo.createdAlerts), len(notifier.notices))
	}
}
