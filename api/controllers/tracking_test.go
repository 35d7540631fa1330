package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/multierr"

	"github.com/Ali-desu/Samsic-projet-stage/internal/tracking"
	"github.com/Ali-desu/Samsic-projet-stage/pkg/db/models"
	pkgerrors "github.com/Ali-desu/Samsic-projet-stage/pkg/errors"
)

type testTrackingService struct {
	updateFn     func(ctx context.Context, id int64, patch tracking.Patch) (*models.TrackingRecord, error)
	updateBulkFn func(ctx context.Context, items []tracking.BulkUpdate) ([]tracking.BulkResult, error)
	attachFn     func(ctx context.Context, recordID int64, proof tracking.ProofInput) error
}

func (s *testTrackingService) Get(ctx context.Context, id int64) (*models.TrackingRecord, error) {
	return &models.TrackingRecord{}, nil
}

func (s *testTrackingService) List(ctx context.Context) ([]models.TrackingRecord, error) {
	return nil, nil
}

func (s *testTrackingService) ListByCoordinatorEmail(ctx context.Context, email string) ([]models.TrackingRecord, error) {
	return nil, nil
}

func (s *testTrackingService) ListByBackOfficeEmail(ctx context.Context, email string) ([]models.TrackingRecord, error) {
	return nil, nil
}

func (s *testTrackingService) RealizedAwaitingTech(ctx context.Context) ([]models.TrackingRecord, error) {
	return nil, nil
}

func (s *testTrackingService) TechAwaitingSystem(ctx context.Context) ([]models.TrackingRecord, error) {
	return nil, nil
}

func (s *testTrackingService) Update(ctx context.Context, id int64, patch tracking.Patch) (*models.TrackingRecord, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, patch)
	}
	return &models.TrackingRecord{}, nil
}

func (s *testTrackingService) UpdateBulk(ctx context.Context, items []tracking.BulkUpdate) ([]tracking.BulkResult, error) {
	if s.updateBulkFn != nil {
		return s.updateBulkFn(ctx, items)
	}
	return nil, nil
}

func (s *testTrackingService) AttachReceptionProof(ctx context.Context, recordID int64, proof tracking.ProofInput) error {
	if s.attachFn != nil {
		return s.attachFn(ctx, recordID, proof)
	}
	return nil
}

func (s *testTrackingService) CreateForOrder(ctx context.Context, input tracking.CreateInput) ([]models.TrackingRecord, error) {
	return nil, nil
}

func withRecordID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("recordId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestUpdateTrackingRecordRejectsBadID(t *testing.T) {
	svc := &testTrackingService{}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/tracking/abc", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req = withRecordID(req, "abc")

	resp := httptest.NewRecorder()
	handler := UpdateTrackingRecord(svc, testControllerLogger())
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateTrackingRecordAppliesPatch(t *testing.T) {
	var capturedID int64
	var capturedPatch tracking.Patch
	svc := &testTrackingService{
		updateFn: func(ctx context.Context, id int64, patch tracking.Patch) (*models.TrackingRecord, error) {
			capturedID = id
			capturedPatch = patch
			return &models.TrackingRecord{}, nil
		},
	}

	body := `{"realized_qty": "4.5", "remark": "avance"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/tracking/12", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withRecordID(req, "12")

	resp := httptest.NewRecorder()
	handler := UpdateTrackingRecord(svc, testControllerLogger())
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if capturedID != 12 {
		t.Fatalf("unexpected id %d", capturedID)
	}
	if capturedPatch.RealizedQty == nil || capturedPatch.RealizedQty.String() != "4.5" {
		t.Fatalf("unexpected realized qty %+v", capturedPatch.RealizedQty)
	}
	if capturedPatch.Remark == nil || *capturedPatch.Remark != "avance" {
		t.Fatalf("unexpected remark %+v", capturedPatch.Remark)
	}
	if capturedPatch.InProgressQty != nil {
		t.Fatal("absent fields must stay nil")
	}
}

func TestBulkUpdateTrackingReportsPerItem(t *testing.T) {
	svc := &testTrackingService{
		updateBulkFn: func(ctx context.Context, items []tracking.BulkUpdate) ([]tracking.BulkResult, error) {
			return []tracking.BulkResult{
				{ID: 1, Updated: true},
				{ID: 2, Err: pkgerrors.New(pkgerrors.CodeNotFound, "tracking record not found")},
			}, multierr.Combine(pkgerrors.New(pkgerrors.CodeNotFound, "tracking record not found"))
		},
	}

	body := `{"items": [{"id": 1, "patch": {}}, {"id": 2, "patch": {}}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/tracking/bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler := BulkUpdateTrackingRecords(svc, testControllerLogger())
	handler(resp, req)

	if resp.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207 got %d", resp.Code)
	}
	var envelope struct {
		Data []bulkTrackingResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 results got %d", len(envelope.Data))
	}
	if !envelope.Data[0].Updated || envelope.Data[0].Error != "" {
		t.Fatalf("unexpected first result %+v", envelope.Data[0])
	}
	if envelope.Data[1].Updated || envelope.Data[1].Error == "" {
		t.Fatalf("unexpected second result %+v", envelope.Data[1])
	}
}

func TestAttachTrackingProofRequiresFile(t *testing.T) {
	svc := &testTrackingService{}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/12/proof", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = withRecordID(req, "12")

	resp := httptest.NewRecorder()
	handler := AttachTrackingProof(svc, testControllerLogger())
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAttachTrackingProofPassesUpload(t *testing.T) {
	var capturedID int64
	var capturedProof tracking.ProofInput
	svc := &testTrackingService{
		attachFn: func(ctx context.Context, recordID int64, proof tracking.ProofInput) error {
			capturedID = recordID
			capturedProof = proof
			return nil
		},
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "reception.pdf")
	if err != nil {
		t.Fatalf("create file part: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4 reception")); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tracking/12/proof", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req = withRecordID(req, "12")

	resp := httptest.NewRecorder()
	handler := AttachTrackingProof(svc, testControllerLogger())
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if capturedID != 12 {
		t.Fatalf("unexpected record id %d", capturedID)
	}
	if capturedProof.Name != "reception.pdf" {
		t.Fatalf("unexpected file name %s", capturedProof.Name)
	}
	if len(capturedProof.Content) == 0 {
		t.Fatal("expected file content")
	}
}
