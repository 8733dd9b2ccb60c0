package rdv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ db queryable }

// NewRepoPG expects the pool's search_path to point at the rdv schema.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{db: pool} }

const rdvCols = `id, patient_id, medecin_id, date, motif, created_at, updated_at`

func scanRdv(row pgx.Row) (*Rdv, error) {
	var r Rdv
	err := row.Scan(&r.ID, &r.PatientID, &r.MedecinID, &r.Date, &r.Motif, &r.CreatedAt, &r.UpdatedAt)
	return &r, err
}

func (p *repoPG) Create(ctx context.Context, r *Rdv) error {
	err := p.db.QueryRow(ctx, `
		INSERT INTO rdv (patient_id, medecin_id, date, motif)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		r.PatientID, r.MedecinID, r.Date, r.Motif,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert rdv: %w", err)
	}
	return nil
}

func (p *repoPG) GetByID(ctx context.Context, id int64) (*Rdv, bool, error) {
	r, err := scanRdv(p.db.QueryRow(ctx, `SELECT `+rdvCols+` FROM rdv WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get rdv %d: %w", id, err)
	}
	return r, true, nil
}

func (p *repoPG) List(ctx context.Context) ([]*Rdv, error) {
	rows, err := p.db.Query(ctx, `SELECT `+rdvCols+` FROM rdv ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list rdv: %w", err)
	}
	defer rows.Close()

	var out []*Rdv
	for rows.Next() {
		r, err := scanRdv(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rdv: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rdv: %w", err)
	}
	return out, nil
}

// Update rewrites the mutable columns; created_at is never touched.
func (p *repoPG) Update(ctx context.Context, r *Rdv) (bool, error) {
	err := p.db.QueryRow(ctx, `
		UPDATE rdv SET patient_id = $2, medecin_id = $3, date = $4, motif = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		r.ID, r.PatientID, r.MedecinID, r.Date, r.Motif,
	).Scan(&r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update rdv %d: %w", r.ID, err)
	}
	return true, nil
}

func (p *repoPG) Delete(ctx context.Context, id int64) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM rdv WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete rdv %d: %w", id, err)
	}
	return nil
}
