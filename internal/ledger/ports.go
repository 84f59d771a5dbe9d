package ledger

import (
	"context"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/roster"
)

// Repository defines the contract for loan data storage.
//
// CreateLoan and MarkReturned are the two transactional operations of the
// ledger: each must commit the loan row mutation and the book availability
// flip as one atomic unit. CreateLoan returns catalog.ErrNotFound when the
// book vanished, or ErrBookUnavailable when it lost the availability race.
// MarkReturned returns ErrNotFound or ErrAlreadyReturned and performs no
// state change in either case.
type Repository interface {
	CreateLoan(ctx context.Context, loan *Loan) error
	MarkReturned(ctx context.Context, loanID string, returnedAt time.Time) (Loan, error)
	Get(ctx context.Context, id string) (Loan, error)
	List(ctx context.Context, q Query, now time.Time) ([]Loan, error)
	ListOverdue(ctx context.Context, now time.Time) ([]Loan, error)
	ListDueSoon(ctx context.Context, now time.Time, horizon time.Duration) ([]Loan, error)
}

// BookReader is the slice of the catalog the ledger needs.
type BookReader interface {
	Get(ctx context.Context, id string) (catalog.Book, error)
}

// MemberReader is the slice of the roster the ledger needs.
type MemberReader interface {
	Get(ctx context.Context, id string) (roster.Member, error)
}
