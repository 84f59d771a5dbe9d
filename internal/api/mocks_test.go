package api

import (
	"context"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/ledger"
	"libraryapi/internal/roster"

	"github.com/stretchr/testify/mock"
)

type mockBookRepo struct {
	mock.Mock
}

func (m *mockBookRepo) Create(ctx context.Context, book *catalog.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *mockBookRepo) Get(ctx context.Context, id string) (catalog.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.Book), args.Error(1)
}

func (m *mockBookRepo) GetByISBN(ctx context.Context, isbn string) (catalog.Book, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(catalog.Book), args.Error(1)
}

func (m *mockBookRepo) Update(ctx context.Context, book *catalog.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *mockBookRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBookRepo) List(ctx context.Context, q catalog.Query) ([]catalog.Book, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Book), args.Error(1)
}

func (m *mockBookRepo) CountActiveLoans(ctx context.Context, bookID string) (int, error) {
	args := m.Called(ctx, bookID)
	return args.Int(0), args.Error(1)
}

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) Create(ctx context.Context, member *roster.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *mockMemberRepo) Get(ctx context.Context, id string) (roster.Member, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(roster.Member), args.Error(1)
}

func (m *mockMemberRepo) GetByEmail(ctx context.Context, email string) (roster.Member, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(roster.Member), args.Error(1)
}

func (m *mockMemberRepo) Update(ctx context.Context, member *roster.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *mockMemberRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockMemberRepo) List(ctx context.Context, q roster.Query) ([]roster.Member, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roster.Member), args.Error(1)
}

func (m *mockMemberRepo) CountActiveLoans(ctx context.Context, memberID string) (int, error) {
	args := m.Called(ctx, memberID)
	return args.Int(0), args.Error(1)
}

func (m *mockMemberRepo) HasOverdueLoans(ctx context.Context, memberID string, now time.Time) (bool, error) {
	args := m.Called(ctx, memberID, now)
	return args.Bool(0), args.Error(1)
}

type mockLoanRepo struct {
	mock.Mock
}

func (m *mockLoanRepo) CreateLoan(ctx context.Context, loan *ledger.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *mockLoanRepo) MarkReturned(ctx context.Context, loanID string, returnedAt time.Time) (ledger.Loan, error) {
	args := m.Called(ctx, loanID, returnedAt)
	return args.Get(0).(ledger.Loan), args.Error(1)
}

func (m *mockLoanRepo) Get(ctx context.Context, id string) (ledger.Loan, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ledger.Loan), args.Error(1)
}

func (m *mockLoanRepo) List(ctx context.Context, q ledger.Query, now time.Time) ([]ledger.Loan, error) {
	args := m.Called(ctx, q, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Loan), args.Error(1)
}

func (m *mockLoanRepo) ListOverdue(ctx context.Context, now time.Time) ([]ledger.Loan, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Loan), args.Error(1)
}

func (m *mockLoanRepo) ListDueSoon(ctx context.Context, now time.Time, horizon time.Duration) ([]ledger.Loan, error) {
	args := m.Called(ctx, now, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Loan), args.Error(1)
}

// nopNotifier swallows notifications so handler tests stay quiet.
type nopNotifier struct{}

func (nopNotifier) Notify(recipient, subject, body string) bool { return true }
