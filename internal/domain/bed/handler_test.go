package bed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *bedFixture, *echo.Echo) {
	f := newBedFixture()
	return NewHandler(f.svc), f, echo.New()
}

func TestHandler_CreateBed(t *testing.T) {
	h, f, e := newTestHandler()

	body := `{"ward_id":"` + f.wardID.String() + `","number":"12A"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/beds", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateBed(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var b Bed
	json.Unmarshal(rec.Body.Bytes(), &b)
	if b.Status != StatusAvailable {
		t.Errorf("expected Available, got %s", b.Status)
	}
}

func TestHandler_CreateBed_Validation(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/beds", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateBed(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_GetBed(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.mustCreate(t, StatusAvailable)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())

	if err := h.GetBed(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var view View
	json.Unmarshal(rec.Body.Bytes(), &view)
	if view.WardNumber != "101" {
		t.Errorf("expected ward number 101, got %s", view.WardNumber)
	}
}

func TestHandler_GetBed_NotFound(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.GetBed(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_ChangeBedStatus(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.mustCreate(t, StatusAvailable)

	body := `{"status":"Cleaning"}`
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())

	if err := h.ChangeBedStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated Bed
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Status != StatusCleaning {
		t.Errorf("expected Cleaning, got %s", updated.Status)
	}
}

func TestHandler_ChangeBedStatus_Invalid(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.mustCreate(t, StatusAvailable)

	body := `{"status":"Bogus"}`
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())

	if err := h.ChangeBedStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_DeleteBed_Conflict(t *testing.T) {
	h, f, e := newTestHandler()
	b := f.mustCreate(t, StatusOccupied)
	f.stays.active[b.ID] = true

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(b.ID.String())

	if err := h.DeleteBed(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandler_ListBeds(t *testing.T) {
	h, f, e := newTestHandler()
	f.mustCreate(t, StatusAvailable)
	f.mustCreate(t, StatusCleaning)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/beds", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListBeds(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
}

func TestHandler_ListBeds_ByWard(t *testing.T) {
	h, f, e := newTestHandler()
	f.mustCreate(t, StatusAvailable)

	otherWard := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/beds?ward_id="+otherWard.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListBeds(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 0 {
		t.Errorf("expected total 0 for other ward, got %d", resp.Total)
	}
}
