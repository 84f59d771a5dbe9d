// Package stats assembles the read-only statistics aggregate consumed
// by dashboards and reports.
package stats

import (
	"context"
	"math"
	"time"
)

// BookCounts summarizes the catalog.
type BookCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	OnLoan    int `json:"on_loan"`
}

// MemberCounts summarizes the roster.
type MemberCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// LoanCounts summarizes the loan ledger.
type LoanCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Overdue  int `json:"overdue"`
	Returned int `json:"returned"`
}

// Statistics is the aggregate exposed at /api/statistics.
type Statistics struct {
	Books   BookCounts   `json:"books"`
	Members MemberCounts `json:"members"`
	Loans   LoanCounts   `json:"loans"`
	// UsageRate is the share of the catalog currently out on loan, in
	// whole percent. OverdueRate is the share of active loans past due.
	UsageRate   int `json:"usage_rate"`
	OverdueRate int `json:"overdue_rate"`
}

// Counts are the raw totals read from the store; derived fields are
// computed by the service.
type Counts struct {
	Books          int
	AvailableBooks int
	Members        int
	ActiveMembers  int
	Loans          int
	ActiveLoans    int
	OverdueLoans   int
}

// Repository reads the raw counts as of now.
type Repository interface {
	Counts(ctx context.Context, now time.Time) (Counts, error)
}

// Service computes the statistics aggregate.
type Service struct {
	repo Repository
}

// NewService creates a new stats service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Snapshot returns the current statistics.
func (s *Service) Snapshot(ctx context.Context, now time.Time) (Statistics, error) {
	c, err := s.repo.Counts(ctx, now)
	if err != nil {
		return Statistics{}, err
	}

	st := Statistics{
		Books: BookCounts{
			Total:     c.Books,
			Available: c.AvailableBooks,
			OnLoan:    c.Books - c.AvailableBooks,
		},
		Members: MemberCounts{
			Total:    c.Members,
			Active:   c.ActiveMembers,
			Inactive: c.Members - c.ActiveMembers,
		},
		Loans: LoanCounts{
			Total:    c.Loans,
			Active:   c.ActiveLoans,
			Overdue:  c.OverdueLoans,
			Returned: c.Loans - c.ActiveLoans,
		},
	}
	st.UsageRate = percent(c.ActiveLoans, c.Books)
	st.OverdueRate = percent(c.OverdueLoans, c.ActiveLoans)
	return st, nil
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
