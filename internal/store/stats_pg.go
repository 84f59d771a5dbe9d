package store

import (
	"context"
	"time"

	"libraryapi/internal/stats"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsPG implements stats.Repository on Postgres.
type StatsPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewStatsPG creates a Postgres-backed stats repository.
func NewStatsPG(db *pgxpool.Pool, timeout time.Duration) *StatsPG {
	return &StatsPG{db: db, timeout: timeout}
}

func (r *StatsPG) Counts(ctx context.Context, now time.Time) (stats.Counts, error) {
	const countsSQL = `
		SELECT
			(SELECT COUNT(*) FROM books),
			(SELECT COUNT(*) FROM books WHERE available),
			(SELECT COUNT(*) FROM members),
			(SELECT COUNT(*) FROM members WHERE active),
			(SELECT COUNT(*) FROM loans),
			(SELECT COUNT(*) FROM loans WHERE NOT returned),
			(SELECT COUNT(*) FROM loans WHERE NOT returned AND due_date < $1)
	`
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var c stats.Counts
	err := r.db.QueryRow(timeoutCtx, countsSQL, now).Scan(
		&c.Books, &c.AvailableBooks,
		&c.Members, &c.ActiveMembers,
		&c.Loans, &c.ActiveLoans, &c.OverdueLoans)
	return c, err
}
