package ward

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateDepartment(ctx context.Context, d *Department) error
	GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error)
	ListDepartments(ctx context.Context, limit, offset int) ([]*Department, int, error)
	DeleteDepartment(ctx context.Context, id uuid.UUID) error

	CreateWard(ctx context.Context, w *Ward) error
	GetWard(ctx context.Context, id uuid.UUID) (*Ward, error)
	ListWards(ctx context.Context, limit, offset int) ([]*Ward, int, error)
	ListWardsByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Ward, int, error)
	DeleteWard(ctx context.Context, id uuid.UUID) error

	// Info resolves a ward's number and its department's name in one query.
	Info(ctx context.Context, id uuid.UUID) (number, departmentName string, err error)
}
