package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a loan is not found.
var ErrNotFound = errors.New("loan not found")

// ErrAlreadyReturned is returned when a returned loan is returned again.
var ErrAlreadyReturned = errors.New("this book has already been returned")

// ErrBookUnavailable is returned when the book already has an active loan.
var ErrBookUnavailable = errors.New("this book is not available for loan")

// ErrMemberInactive is returned when an inactive member tries to borrow.
var ErrMemberInactive = errors.New("this member is not active")

// ErrInvalidPeriod is returned for a loan period shorter than one day.
var ErrInvalidPeriod = errors.New("loan period must be at least one day")

// DefaultLoanPeriodDays is the loan period used when none is configured.
const DefaultLoanPeriodDays = 14

// DefaultDailyFineRate is the fine charged per whole day overdue.
var DefaultDailyFineRate = decimal.NewFromFloat(0.50)

// Loan statuses accepted by Query.Status.
const (
	StatusAll      = "all"
	StatusActive   = "active"
	StatusReturned = "returned"
	StatusOverdue  = "overdue"
)

// ValidStatus reports whether status is a known loan status filter.
func ValidStatus(status string) bool {
	switch status {
	case StatusAll, StatusActive, StatusReturned, StatusOverdue:
		return true
	default:
		return false
	}
}

// Loan represents a book loan transaction. A loan is created active and
// transitions exactly once, to returned.
type Loan struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book_id"`
	MemberID   string     `json:"member_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Returned   bool       `json:"returned"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsOverdue reports whether the loan is still out past its due date.
// A returned loan is never overdue, even if it came back late.
func (l Loan) IsOverdue(now time.Time) bool {
	if l.Returned {
		return false
	}
	return now.After(l.DueDate)
}

// DaysOverdue returns the number of whole days the loan is overdue,
// or 0 if it is not overdue.
func (l Loan) DaysOverdue(now time.Time) int {
	if !l.IsOverdue(now) {
		return 0
	}
	return l.LateDays(now)
}

// LateDays returns the whole days elapsed between the due date and at,
// regardless of the returned flag. 0 when at is on or before the due date.
func (l Loan) LateDays(at time.Time) int {
	if !at.After(l.DueDate) {
		return 0
	}
	return int(at.Sub(l.DueDate) / (24 * time.Hour))
}

// CalculateFine returns the fine owed at now: days overdue times the
// daily rate, zero if the loan is not overdue.
func (l Loan) CalculateFine(now time.Time, dailyRate decimal.Decimal) decimal.Decimal {
	days := l.DaysOverdue(now)
	if days == 0 {
		return decimal.Zero
	}
	return dailyRate.Mul(decimal.NewFromInt(int64(days)))
}

// Query defines filters for listing loans.
type Query struct {
	Status   string
	MemberID string
	BookID   string
}
