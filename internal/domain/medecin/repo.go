package medecin

import "context"

type Repository interface {
	Create(ctx context.Context, m *Medecin) error
	GetByID(ctx context.Context, id int64) (*Medecin, bool, error)
	// List filters on specialite when it is not empty.
	List(ctx context.Context, specialite string, limit, offset int) ([]*Medecin, int, error)
	Update(ctx context.Context, m *Medecin) error
	Delete(ctx context.Context, id int64) error
}
