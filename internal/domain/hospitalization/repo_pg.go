package hospitalization

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

const hospCols = `id, patient_id, bed_id, admitted_at, planned_discharge_at, discharged_at,
	admission_reason, discharge_reason, status, created_at, updated_at`

const viewQuery = `
	SELECT h.id, h.patient_id,
		TRIM(p.last_name || ' ' || p.first_name || ' ' || COALESCE(p.middle_name, '')),
		h.bed_id, b.number, w.number, d.name,
		h.admitted_at, h.planned_discharge_at, h.discharged_at,
		h.admission_reason, h.discharge_reason, h.status
	FROM hospitalization h
	JOIN patient p ON p.id = h.patient_id
	JOIN bed b ON b.id = h.bed_id
	JOIN ward w ON w.id = b.ward_id
	JOIN department d ON d.id = w.department_id`

func (r *repoPG) Create(ctx context.Context, h *Hospitalization) error {
	h.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospitalization
			(id, patient_id, bed_id, admitted_at, planned_discharge_at, admission_reason, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		h.ID, h.PatientID, h.BedID, h.AdmittedAt, h.PlannedDischargeAt, h.AdmissionReason, h.Status,
	)
	if isUniqueViolation(err) {
		// Partial unique index on (bed_id) WHERE status = 'Active'.
		return apperror.Conflict("bed already has an active hospitalization")
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospitalization, error) {
	row := r.conn(ctx).QueryRow(ctx, `SELECT `+hospCols+` FROM hospitalization WHERE id = $1`, id)
	return scanHospitalization(row)
}

func (r *repoPG) Update(ctx context.Context, h *Hospitalization) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospitalization SET
			bed_id = $2,
			admitted_at = $3,
			planned_discharge_at = $4,
			discharged_at = $5,
			admission_reason = $6,
			discharge_reason = $7,
			status = $8,
			updated_at = NOW()
		WHERE id = $1`,
		h.ID, h.BedID, h.AdmittedAt, h.PlannedDischargeAt, h.DischargedAt,
		h.AdmissionReason, h.DischargeReason, h.Status,
	)
	if isUniqueViolation(err) {
		return apperror.Conflict("bed already has an active hospitalization")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("hospitalization")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM hospitalization WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("hospitalization")
	}
	return nil
}

func (r *repoPG) GetView(ctx context.Context, id uuid.UUID) (*View, error) {
	row := r.conn(ctx).QueryRow(ctx, viewQuery+` WHERE h.id = $1`, id)
	v, err := scanView(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("hospitalization")
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *repoPG) ListViews(ctx context.Context, limit, offset int) ([]*View, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM hospitalization`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		viewQuery+` ORDER BY h.admitted_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectViews(rows, total)
}

func (r *repoPG) ListViewsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*View, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM hospitalization WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		viewQuery+` WHERE h.patient_id = $1 ORDER BY h.admitted_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectViews(rows, total)
}

func (r *repoPG) HasActiveForBed(ctx context.Context, bedID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM hospitalization WHERE bed_id = $1 AND status = $2)`,
		bedID, StatusActive).Scan(&exists)
	return exists, err
}

func scanHospitalization(row pgx.Row) (*Hospitalization, error) {
	var h Hospitalization
	err := row.Scan(
		&h.ID, &h.PatientID, &h.BedID, &h.AdmittedAt, &h.PlannedDischargeAt, &h.DischargedAt,
		&h.AdmissionReason, &h.DischargeReason, &h.Status, &h.CreatedAt, &h.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("hospitalization")
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func scanView(row pgx.Row) (*View, error) {
	var v View
	err := row.Scan(
		&v.ID, &v.PatientID, &v.PatientFullName,
		&v.BedID, &v.BedNumber, &v.WardNumber, &v.DepartmentName,
		&v.AdmittedAt, &v.PlannedDischargeAt, &v.DischargedAt,
		&v.AdmissionReason, &v.DischargeReason, &v.Status,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func collectViews(rows pgx.Rows, total int) ([]*View, int, error) {
	var views []*View
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, v)
	}
	return views, total, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
