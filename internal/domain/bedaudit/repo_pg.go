package bedaudit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

func (r *repoPG) Append(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	// occurred_at comes from the database clock at insert so entries for
	// one bed are non-decreasing in commit order.
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bed_audit_entry (id, bed_id, event_kind, user_id, user_name, patient_id, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING occurred_at`,
		e.ID, e.BedID, e.EventKind, e.UserID, e.UserName, e.PatientID, e.Description,
	).Scan(&e.OccurredAt)
}

func (r *repoPG) ListByBed(ctx context.Context, bedID uuid.UUID, limit, offset int) ([]*View, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM bed_audit_entry WHERE bed_id = $1`, bedID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.id, a.bed_id, b.number, a.event_kind, a.occurred_at,
			a.user_id, a.user_name, a.patient_id,
			CASE WHEN p.id IS NULL THEN NULL
				ELSE TRIM(p.last_name || ' ' || p.first_name || ' ' || COALESCE(p.middle_name, ''))
			END,
			a.description
		FROM bed_audit_entry a
		JOIN bed b ON b.id = a.bed_id
		LEFT JOIN patient p ON p.id = a.patient_id
		WHERE a.bed_id = $1
		ORDER BY a.occurred_at DESC, a.id DESC
		LIMIT $2 OFFSET $3`,
		bedID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var views []*View
	for rows.Next() {
		var v View
		if err := rows.Scan(
			&v.ID, &v.BedID, &v.BedNumber, &v.EventKind, &v.OccurredAt,
			&v.UserID, &v.UserName, &v.PatientID, &v.PatientFullName, &v.Description,
		); err != nil {
			return nil, 0, err
		}
		views = append(views, &v)
	}
	return views, total, rows.Err()
}
