package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newLoanDue(due time.Time) Loan {
	return Loan{
		ID:       "loan-1",
		BookID:   "book-1",
		MemberID: "member-1",
		LoanDate: due.AddDate(0, 0, -DefaultLoanPeriodDays),
		DueDate:  due,
	}
}

func TestLoan_IsOverdue_Boundary(t *testing.T) {
	due := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	loan := newLoanDue(due)

	assert.False(t, loan.IsOverdue(due.Add(-time.Second)))
	assert.False(t, loan.IsOverdue(due))
	assert.True(t, loan.IsOverdue(due.Add(time.Second)))
}

func TestLoan_IsOverdue_ReturnedLoanNeverOverdue(t *testing.T) {
	due := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	returnDate := due.AddDate(0, 0, 5)

	loan := newLoanDue(due)
	loan.Returned = true
	loan.ReturnDate = &returnDate

	assert.False(t, loan.IsOverdue(due.AddDate(0, 0, 30)))
	assert.Equal(t, 0, loan.DaysOverdue(due.AddDate(0, 0, 30)))
}

func TestLoan_DaysOverdue_WholeDayFloor(t *testing.T) {
	due := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	loan := newLoanDue(due)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"one second before due", due.Add(-time.Second), 0},
		{"one second after due", due.Add(time.Second), 0},
		{"just under one day", due.Add(24*time.Hour - time.Second), 0},
		{"exactly one day", due.Add(24 * time.Hour), 1},
		{"six days and change", due.Add(6*24*time.Hour + 11*time.Hour), 6},
		{"seven days", due.Add(7 * 24 * time.Hour), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loan.DaysOverdue(tt.now))
		})
	}
}

func TestLoan_CalculateFine(t *testing.T) {
	due := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	loan := newLoanDue(due)

	t.Run("not overdue", func(t *testing.T) {
		fine := loan.CalculateFine(due.Add(-time.Hour), DefaultDailyFineRate)
		assert.True(t, fine.IsZero())
	})

	t.Run("overdue but under a whole day", func(t *testing.T) {
		fine := loan.CalculateFine(due.Add(time.Hour), DefaultDailyFineRate)
		assert.True(t, fine.IsZero())
	})

	t.Run("seven days at default rate", func(t *testing.T) {
		fine := loan.CalculateFine(due.Add(7*24*time.Hour), DefaultDailyFineRate)
		assert.True(t, fine.Equal(decimal.RequireFromString("3.50")), "got %s", fine)
	})

	t.Run("custom rate", func(t *testing.T) {
		rate := decimal.RequireFromString("1.25")
		fine := loan.CalculateFine(due.Add(4*24*time.Hour), rate)
		assert.True(t, fine.Equal(decimal.RequireFromString("5.00")), "got %s", fine)
	})
}

func TestLoan_LateDays_IgnoresReturnedFlag(t *testing.T) {
	due := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	returnDate := due.Add(6 * 24 * time.Hour)

	loan := newLoanDue(due)
	loan.Returned = true
	loan.ReturnDate = &returnDate

	assert.Equal(t, 6, loan.LateDays(returnDate))
	assert.Equal(t, 0, loan.LateDays(due.Add(-time.Minute)))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusAll, StatusActive, StatusReturned, StatusOverdue} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("late"))
	assert.False(t, ValidStatus(""))
}
