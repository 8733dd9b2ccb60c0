package rdv

import "context"

type Repository interface {
	Create(ctx context.Context, r *Rdv) error
	// GetByID reports found=false, with a nil error, when no row matches.
	GetByID(ctx context.Context, id int64) (*Rdv, bool, error)
	List(ctx context.Context) ([]*Rdv, error)
	// Update reports found=false when the row disappeared since it was read.
	Update(ctx context.Context, r *Rdv) (bool, error)
	Delete(ctx context.Context, id int64) error
}
