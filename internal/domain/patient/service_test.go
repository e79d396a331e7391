package patient

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wardops/wardops/internal/platform/apperror"
)

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperror.NotFound("patient")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return apperror.NotFound("patient")
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.patients[id]; !ok {
		return apperror.NotFound("patient")
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if strings.Contains(strings.ToLower(p.FullName()), strings.ToLower(query)) {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func TestCreatePatient(t *testing.T) {
	svc := newTestService()

	p := &Patient{FirstName: "Anna", LastName: "Petrova"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := newTestService()

	err := svc.Create(context.Background(), &Patient{})
	e, ok := apperror.As(err)
	if !ok || e.Kind != apperror.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := e.Fields["first_name"]; !ok {
		t.Error("expected first_name field error")
	}
	if _, ok := e.Fields["last_name"]; !ok {
		t.Error("expected last_name field error")
	}
}

func TestFullName(t *testing.T) {
	middle := "Sergeevna"
	tests := []struct {
		name    string
		patient Patient
		want    string
	}{
		{"with middle name", Patient{FirstName: "Anna", LastName: "Petrova", MiddleName: &middle}, "Petrova Anna Sergeevna"},
		{"without middle name", Patient{FirstName: "Anna", LastName: "Petrova"}, "Petrova Anna"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.patient.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServiceFullName(t *testing.T) {
	svc := newTestService()

	p := &Patient{FirstName: "Anna", LastName: "Petrova"}
	svc.Create(context.Background(), p)

	name, err := svc.FullName(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Petrova Anna" {
		t.Errorf("expected %q, got %q", "Petrova Anna", name)
	}
}

func TestServiceFullName_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.FullName(context.Background(), uuid.New())
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSearchPatients(t *testing.T) {
	svc := newTestService()

	svc.Create(context.Background(), &Patient{FirstName: "Anna", LastName: "Petrova"})
	svc.Create(context.Background(), &Patient{FirstName: "Ivan", LastName: "Ivanov"})

	result, total, err := svc.Search(context.Background(), "petrova", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Errorf("expected 1 match, got %d", total)
	}
}
