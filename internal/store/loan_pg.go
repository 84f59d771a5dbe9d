package store

import (
	"context"
	"errors"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/ledger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loanColumns = `id, book_id, member_id, loan_date, due_date, return_date, returned,
	COALESCE(notes, ''), created_at, updated_at`

// LoanPG implements ledger.Repository on Postgres.
type LoanPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewLoanPG creates a Postgres-backed loan repository.
func NewLoanPG(db *pgxpool.Pool, timeout time.Duration) *LoanPG {
	return &LoanPG{db: db, timeout: timeout}
}

func (r *LoanPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// CreateLoan inserts the loan and flips the book to unavailable in one
// transaction. The book row is locked first, so concurrent creates for
// the same book serialize and the loser gets ErrBookUnavailable.
func (r *LoanPG) CreateLoan(ctx context.Context, loan *ledger.Loan) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	var available bool
	err = tx.QueryRow(timeoutCtx,
		`SELECT available FROM books WHERE id = $1 FOR UPDATE`, loan.BookID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrNotFound
	}
	if err != nil {
		return err
	}
	if !available {
		return ledger.ErrBookUnavailable
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(timeoutCtx,
		`UPDATE books SET available = FALSE, updated_at = $2 WHERE id = $1`, loan.BookID, now); err != nil {
		return err
	}

	loan.ID = uuid.New().String()
	loan.Returned = false
	loan.ReturnDate = nil
	loan.CreatedAt = now
	loan.UpdatedAt = now

	const insertSQL = `
		INSERT INTO loans (id, book_id, member_id, loan_date, due_date, return_date, returned, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULL, FALSE, NULLIF($6, ''), $7, $7)
	`
	if _, err := tx.Exec(timeoutCtx, insertSQL,
		loan.ID, loan.BookID, loan.MemberID, loan.LoanDate, loan.DueDate, loan.Notes, now); err != nil {
		return err
	}

	return tx.Commit(timeoutCtx)
}

// MarkReturned closes the loan and flips the book back to available in
// one transaction. The loan row is locked so a second concurrent return
// observes the returned flag and fails cleanly.
func (r *LoanPG) MarkReturned(ctx context.Context, loanID string, returnedAt time.Time) (ledger.Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, pgx.TxOptions{})
	if err != nil {
		return ledger.Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	row := tx.QueryRow(timeoutCtx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, loanID)
	loan, err := scanLoan(row)
	if err != nil {
		return ledger.Loan{}, err
	}
	if loan.Returned {
		return ledger.Loan{}, ledger.ErrAlreadyReturned
	}

	if _, err := tx.Exec(timeoutCtx,
		`UPDATE loans SET returned = TRUE, return_date = $2, updated_at = $2 WHERE id = $1`,
		loanID, returnedAt); err != nil {
		return ledger.Loan{}, err
	}
	if _, err := tx.Exec(timeoutCtx,
		`UPDATE books SET available = TRUE, updated_at = $2 WHERE id = $1`,
		loan.BookID, returnedAt); err != nil {
		return ledger.Loan{}, err
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return ledger.Loan{}, err
	}

	loan.Returned = true
	loan.ReturnDate = &returnedAt
	loan.UpdatedAt = returnedAt
	return loan, nil
}

func (r *LoanPG) Get(ctx context.Context, id string) (ledger.Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.db.QueryRow(timeoutCtx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	return scanLoan(row)
}

func (r *LoanPG) List(ctx context.Context, q ledger.Query, now time.Time) ([]ledger.Loan, error) {
	const listSQL = `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE ($1 = 'all'
			OR ($1 = 'active' AND NOT returned)
			OR ($1 = 'returned' AND returned)
			OR ($1 = 'overdue' AND NOT returned AND due_date < $2))
		AND ($3 = '' OR member_id = $3)
		AND ($4 = '' OR book_id = $4)
		ORDER BY loan_date DESC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, listSQL, q.Status, now, q.MemberID, q.BookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

func (r *LoanPG) ListOverdue(ctx context.Context, now time.Time) ([]ledger.Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		`SELECT `+loanColumns+` FROM loans WHERE NOT returned AND due_date < $1 ORDER BY due_date`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

func (r *LoanPG) ListDueSoon(ctx context.Context, now time.Time, horizon time.Duration) ([]ledger.Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx,
		`SELECT `+loanColumns+` FROM loans WHERE NOT returned AND due_date > $1 AND due_date <= $2 ORDER BY due_date`,
		now, now.Add(horizon))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]ledger.Loan, error) {
	var loans []ledger.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func scanLoan(row pgx.Row) (ledger.Loan, error) {
	var l ledger.Loan
	err := row.Scan(&l.ID, &l.BookID, &l.MemberID, &l.LoanDate, &l.DueDate, &l.ReturnDate,
		&l.Returned, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Loan{}, ledger.ErrNotFound
	}
	return l, err
}
