package hospitalization

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wardops/wardops/internal/domain/bed"
)

func newTestHandler() (*Handler, *fixture, *echo.Echo) {
	f := newFixture()
	return NewHandler(f.svc), f, echo.New()
}

func admitBody(patientID, bedID uuid.UUID) string {
	admitted := time.Now().Add(-time.Hour).Format(time.RFC3339)
	return `{"patient_id":"` + patientID.String() + `","bed_id":"` + bedID.String() + `","admitted_at":"` + admitted + `"}`
}

func TestHandler_Admit(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.addBed(t, bed.StatusAvailable)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitalizations", strings.NewReader(admitBody(f.patientID, b.ID)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Admit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var view View
	json.Unmarshal(rec.Body.Bytes(), &view)
	if view.Status != StatusActive {
		t.Errorf("expected Active, got %s", view.Status)
	}
	if view.PatientFullName == "" {
		t.Error("expected patient name in view")
	}
}

func TestHandler_Admit_Conflict(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.addBed(t, bed.StatusAvailable)
	f.admit(t, f.patientID, b.ID)

	other := f.addPatient("Ivanov Ivan")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitalizations", strings.NewReader(admitBody(other, b.ID)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Admit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Bed is not available") {
		t.Errorf("expected current-state detail in body, got %s", rec.Body.String())
	}
}

func TestHandler_Admit_Validation(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitalizations", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Admit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if len(body.Fields) == 0 {
		t.Error("expected per-field validation detail")
	}
}

func TestHandler_Discharge(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.addBed(t, bed.StatusAvailable)
	view := f.admit(t, f.patientID, b.ID)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"discharge_reason":"recovered"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(view.ID.String())

	if err := h.Discharge(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated View
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Status != StatusDischarged {
		t.Errorf("expected Discharged, got %s", updated.Status)
	}
}

func TestHandler_Discharge_AlreadyDischarged(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.addBed(t, bed.StatusAvailable)
	view := f.admit(t, f.patientID, b.ID)
	f.svc.Discharge(context.Background(), view.ID, DischargeCommand{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(view.ID.String())

	if err := h.Discharge(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandler_GetHospitalization_NotFound(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.GetHospitalization(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_ListHospitalizations_ByPatient(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.addBed(t, bed.StatusAvailable)
	f.admit(t, f.patientID, b.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hospitalizations?patient_id="+f.patientID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListHospitalizations(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Total)
	}
}

func TestHandler_DeleteHospitalization(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.addBed(t, bed.StatusAvailable)
	view := f.admit(t, f.patientID, b.ID)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(view.ID.String())

	if err := h.DeleteHospitalization(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if f.beds.status(b.ID) != bed.StatusAvailable {
		t.Errorf("expected bed released, got %s", f.beds.status(b.ID))
	}
}
