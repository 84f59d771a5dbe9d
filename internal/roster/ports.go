package roster

import (
	"context"
	"time"
)

// Repository defines the contract for member data storage.
type Repository interface {
	Create(ctx context.Context, member *Member) error
	Get(ctx context.Context, id string) (Member, error)
	GetByEmail(ctx context.Context, email string) (Member, error)
	Update(ctx context.Context, member *Member) error
	// Delete removes the member and their loan history.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q Query) ([]Member, error)
	CountActiveLoans(ctx context.Context, memberID string) (int, error)
	HasOverdueLoans(ctx context.Context, memberID string, now time.Time) (bool, error)
}
