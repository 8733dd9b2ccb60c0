package medecin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/isi/clinic/pkg/pagination"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ db queryable }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{db: pool} }

const medecinCols = `id, nom, prenom, specialite, telephone, email, lieu_travail, created_at, updated_at`

func scanMedecin(row pgx.Row) (*Medecin, error) {
	var m Medecin
	err := row.Scan(&m.ID, &m.Nom, &m.Prenom, &m.Specialite, &m.Telephone,
		&m.Email, &m.LieuTravail, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medecin) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO medecin (nom, prenom, specialite, telephone, email, lieu_travail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		m.Nom, m.Prenom, m.Specialite, m.Telephone, m.Email, m.LieuTravail,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert medecin: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Medecin, bool, error) {
	m, err := scanMedecin(r.db.QueryRow(ctx, `SELECT `+medecinCols+` FROM medecin WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get medecin %d: %w", id, err)
	}
	return m, true, nil
}

func (r *repoPG) List(ctx context.Context, specialite string, limit, offset int) ([]*Medecin, int, error) {
	where := ""
	var args []interface{}
	if specialite != "" {
		where = " WHERE specialite ILIKE $1"
		args = append(args, "%"+specialite+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM medecin`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medecins: %w", err)
	}

	page := pagination.Params{Limit: limit, Offset: offset}
	rows, err := r.db.Query(ctx, `SELECT `+medecinCols+` FROM medecin`+where+` ORDER BY nom, prenom, id `+page.SQL(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list medecins: %w", err)
	}
	defer rows.Close()

	var items []*Medecin
	for rows.Next() {
		m, err := scanMedecin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan medecin: %w", err)
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, m *Medecin) error {
	err := r.db.QueryRow(ctx, `
		UPDATE medecin SET nom = $2, prenom = $3, specialite = $4, telephone = $5,
			email = $6, lieu_travail = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		m.ID, m.Nom, m.Prenom, m.Specialite, m.Telephone, m.Email, m.LieuTravail,
	).Scan(&m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update medecin %d: %w", m.ID, err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM medecin WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete medecin %d: %w", id, err)
	}
	return nil
}
