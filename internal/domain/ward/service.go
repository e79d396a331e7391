package ward

import (
	"context"

	"github.com/google/uuid"

	"github.com/wardops/wardops/internal/platform/apperror"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	if d.Name == "" {
		return apperror.ValidationField("name", "is required")
	}
	return s.repo.CreateDepartment(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.repo.GetDepartment(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, limit, offset int) ([]*Department, int, error) {
	return s.repo.ListDepartments(ctx, limit, offset)
}

func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDepartment(ctx, id)
}

func (s *Service) CreateWard(ctx context.Context, w *Ward) error {
	fields := map[string]string{}
	if w.DepartmentID == uuid.Nil {
		fields["department_id"] = "is required"
	}
	if w.Number == "" {
		fields["number"] = "is required"
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	if _, err := s.repo.GetDepartment(ctx, w.DepartmentID); err != nil {
		return err
	}
	return s.repo.CreateWard(ctx, w)
}

func (s *Service) GetWard(ctx context.Context, id uuid.UUID) (*Ward, error) {
	return s.repo.GetWard(ctx, id)
}

func (s *Service) ListWards(ctx context.Context, limit, offset int) ([]*Ward, int, error) {
	return s.repo.ListWards(ctx, limit, offset)
}

func (s *Service) ListWardsByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Ward, int, error) {
	return s.repo.ListWardsByDepartment(ctx, departmentID, limit, offset)
}

func (s *Service) DeleteWard(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteWard(ctx, id)
}

// Info resolves ward display data; the bed and hospitalization views depend
// on it.
func (s *Service) Info(ctx context.Context, id uuid.UUID) (string, string, error) {
	return s.repo.Info(ctx, id)
}
