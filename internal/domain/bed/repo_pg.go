package bed

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

const bedCols = `id, ward_id, number, status, notes, version, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	b.Version = 1
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bed (id, ward_id, number, status, notes, version)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.WardID, b.Number, b.Status, b.Notes, b.Version,
	)
	if isUniqueViolation(err) {
		return apperror.Conflict("bed number %q already exists in ward", b.Number)
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM bed WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Bed, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bed`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bedCols+` FROM bed ORDER BY number LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectBeds(rows, total)
}

func (r *repoPG) ListByWard(ctx context.Context, wardID uuid.UUID, limit, offset int) ([]*Bed, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM bed WHERE ward_id = $1`, wardID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bedCols+` FROM bed WHERE ward_id = $1 ORDER BY number LIMIT $2 OFFSET $3`,
		wardID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectBeds(rows, total)
}

func (r *repoPG) UpdateStatusCAS(ctx context.Context, id uuid.UUID, expectedVersion int, status Status, notes *string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bed SET
			status = $3,
			notes = COALESCE($4, notes),
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND version = $2`,
		id, expectedVersion, status, notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM bed WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return apperror.Conflict("bed has hospitalization history")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("bed")
	}
	return nil
}

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.WardID, &b.Number, &b.Status, &b.Notes, &b.Version, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("bed")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBeds(rows pgx.Rows, total int) ([]*Bed, int, error) {
	var beds []*Bed
	for rows.Next() {
		var b Bed
		if err := rows.Scan(&b.ID, &b.WardID, &b.Number, &b.Status, &b.Notes, &b.Version, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		beds = append(beds, &b)
	}
	return beds, total, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
