package ward

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wardops/wardops/internal/platform/apperror"
	"github.com/wardops/wardops/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) CreateDepartment(ctx context.Context, d *Department) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO department (id, name) VALUES ($1,$2)`, d.ID, d.Name)
	if isUniqueViolation(err) {
		return apperror.Conflict("department %q already exists", d.Name)
	}
	return err
}

func (r *repoPG) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	var d Department
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM department WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("department")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) ListDepartments(ctx context.Context, limit, offset int) ([]*Department, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM department`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, created_at, updated_at FROM department ORDER BY name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var departments []*Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		departments = append(departments, &d)
	}
	return departments, total, rows.Err()
}

func (r *repoPG) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM department WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return apperror.Conflict("department still has wards")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("department")
	}
	return nil
}

const wardCols = `id, department_id, number, ward_type, created_at, updated_at`

func (r *repoPG) CreateWard(ctx context.Context, w *Ward) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO ward (id, department_id, number, ward_type) VALUES ($1,$2,$3,$4)`,
		w.ID, w.DepartmentID, w.Number, w.WardType)
	if isUniqueViolation(err) {
		return apperror.Conflict("ward number %q already exists in department", w.Number)
	}
	return err
}

func (r *repoPG) GetWard(ctx context.Context, id uuid.UUID) (*Ward, error) {
	return scanWard(r.conn(ctx).QueryRow(ctx, `SELECT `+wardCols+` FROM ward WHERE id = $1`, id))
}

func (r *repoPG) ListWards(ctx context.Context, limit, offset int) ([]*Ward, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ward`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+wardCols+` FROM ward ORDER BY number LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectWards(rows, total)
}

func (r *repoPG) ListWardsByDepartment(ctx context.Context, departmentID uuid.UUID, limit, offset int) ([]*Ward, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM ward WHERE department_id = $1`, departmentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+wardCols+` FROM ward WHERE department_id = $1 ORDER BY number LIMIT $2 OFFSET $3`,
		departmentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectWards(rows, total)
}

func (r *repoPG) DeleteWard(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM ward WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return apperror.Conflict("ward still has beds")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("ward")
	}
	return nil
}

func (r *repoPG) Info(ctx context.Context, id uuid.UUID) (string, string, error) {
	var number, departmentName string
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT w.number, d.name
		FROM ward w
		JOIN department d ON d.id = w.department_id
		WHERE w.id = $1`, id).Scan(&number, &departmentName)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", apperror.NotFound("ward")
	}
	if err != nil {
		return "", "", err
	}
	return number, departmentName, nil
}

func scanWard(row pgx.Row) (*Ward, error) {
	var w Ward
	err := row.Scan(&w.ID, &w.DepartmentID, &w.Number, &w.WardType, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("ward")
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func collectWards(rows pgx.Rows, total int) ([]*Ward, int, error) {
	var wards []*Ward
	for rows.Next() {
		var w Ward
		if err := rows.Scan(&w.ID, &w.DepartmentID, &w.Number, &w.WardType, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, err
		}
		wards = append(wards, &w)
	}
	return wards, total, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
