package ledger

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/notify"
	"libraryapi/internal/roster"

	"github.com/shopspring/decimal"
)

// Config tunes the ledger service. Zero values select the defaults.
type Config struct {
	// LoanPeriodDays is the due period applied when a caller does not
	// choose one. Defaults to DefaultLoanPeriodDays.
	LoanPeriodDays int
	// DailyFineRate is charged per whole day overdue. Defaults to
	// DefaultDailyFineRate.
	DailyFineRate decimal.Decimal
	// SweepDedupWindow suppresses repeat sweep notifications for the
	// same loan within the window. The suppression state is process
	// local; the schema stores no "already notified" flag, so every
	// process restart re-notifies. Zero disables de-duplication,
	// matching the historical behavior.
	SweepDedupWindow time.Duration
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Service implements the loan lifecycle: creating loans, processing
// returns, and the overdue / due-soon notification sweeps.
type Service struct {
	loans    Repository
	books    BookReader
	members  MemberReader
	notifier notify.Notifier

	loanPeriodDays int
	dailyFineRate  decimal.Decimal
	dedupWindow    time.Duration
	now            func() time.Time

	mu       sync.Mutex
	notified map[string]time.Time
}

// NewService creates a new ledger service.
func NewService(loans Repository, books BookReader, members MemberReader, notifier notify.Notifier, cfg Config) *Service {
	if cfg.LoanPeriodDays < 1 {
		cfg.LoanPeriodDays = DefaultLoanPeriodDays
	}
	if cfg.DailyFineRate.IsZero() {
		cfg.DailyFineRate = DefaultDailyFineRate
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		loans:          loans,
		books:          books,
		members:        members,
		notifier:       notifier,
		loanPeriodDays: cfg.LoanPeriodDays,
		dailyFineRate:  cfg.DailyFineRate,
		dedupWindow:    cfg.SweepDedupWindow,
		now:            cfg.Now,
		notified:       make(map[string]time.Time),
	}
}

// LoanPeriodDays returns the configured default loan period.
func (s *Service) LoanPeriodDays() int {
	return s.loanPeriodDays
}

// DailyFineRate returns the configured daily fine rate.
func (s *Service) DailyFineRate() decimal.Decimal {
	return s.dailyFineRate
}

// CreateParams carries the fields accepted when creating a loan.
type CreateParams struct {
	BookID     string
	MemberID   string
	PeriodDays int
	Notes      string
}

// CreateLoan lends a book to a member. The book must exist and be
// available, the member must exist and be active, and the period must be
// at least one day. On success the book is no longer available and the
// member receives a best-effort loan confirmation.
func (s *Service) CreateLoan(ctx context.Context, p CreateParams) (Loan, error) {
	if p.PeriodDays < 1 {
		return Loan{}, ErrInvalidPeriod
	}

	book, err := s.books.Get(ctx, p.BookID)
	if err != nil {
		return Loan{}, fmt.Errorf("create loan: %w", err)
	}
	if !book.Available {
		return Loan{}, ErrBookUnavailable
	}

	member, err := s.members.Get(ctx, p.MemberID)
	if err != nil {
		return Loan{}, fmt.Errorf("create loan: %w", err)
	}
	if !member.Active {
		return Loan{}, ErrMemberInactive
	}

	now := s.now().UTC()
	loan := Loan{
		BookID:   p.BookID,
		MemberID: p.MemberID,
		LoanDate: now,
		DueDate:  now.AddDate(0, 0, p.PeriodDays),
		Notes:    p.Notes,
	}

	// The store re-checks availability under the book row lock, so two
	// concurrent creates for one book cannot both succeed.
	if err := s.loans.CreateLoan(ctx, &loan); err != nil {
		return Loan{}, fmt.Errorf("create loan: %w", err)
	}

	subject, body := notify.LoanConfirmation(member.FullName(), book.Title, book.Author, loan.DueDate)
	s.send(member.Email, subject, body)

	return loan, nil
}

// ReturnResult is the outcome of a successful return.
type ReturnResult struct {
	Loan Loan
	// Fine owed for this return, computed against the due date at the
	// moment of return. Zero when the book came back on time.
	Fine decimal.Decimal
}

// ReturnLoan processes a book return. The loan transitions to returned,
// the book becomes available again, and the member receives either a
// fine notice or a plain return confirmation. Returning an already
// returned loan fails with ErrAlreadyReturned and changes nothing.
func (s *Service) ReturnLoan(ctx context.Context, loanID string) (ReturnResult, error) {
	now := s.now().UTC()

	loan, err := s.loans.MarkReturned(ctx, loanID, now)
	if err != nil {
		return ReturnResult{}, fmt.Errorf("return loan: %w", err)
	}

	daysLate := loan.LateDays(now)
	fine := decimal.Zero
	if daysLate > 0 {
		fine = s.dailyFineRate.Mul(decimal.NewFromInt(int64(daysLate)))
	}

	if book, berr := s.books.Get(ctx, loan.BookID); berr == nil {
		if member, merr := s.members.Get(ctx, loan.MemberID); merr == nil {
			var subject, body string
			if fine.IsPositive() {
				subject, body = notify.FineNotice(member.FullName(), book.Title, book.Author, daysLate, fine)
			} else {
				subject, body = notify.ReturnConfirmation(member.FullName(), book.Title, book.Author, now)
			}
			s.send(member.Email, subject, body)
		}
	}

	return ReturnResult{Loan: loan, Fine: fine}, nil
}

// GetLoan returns a loan by id.
func (s *Service) GetLoan(ctx context.Context, id string) (Loan, error) {
	return s.loans.Get(ctx, id)
}

// ListLoans returns loans matching the query, newest first.
func (s *Service) ListLoans(ctx context.Context, q Query) ([]Loan, error) {
	if q.Status == "" {
		q.Status = StatusAll
	}
	if !ValidStatus(q.Status) {
		return nil, fmt.Errorf("unknown loan status %q", q.Status)
	}
	return s.loans.List(ctx, q, s.now().UTC())
}

// RunOverdueSweep notifies the holder of every overdue loan and returns
// the number of notifications sent. The sweep only reads loan state;
// repeated runs re-notify unless a dedup window is configured.
func (s *Service) RunOverdueSweep(ctx context.Context, now time.Time) (int, error) {
	loans, err := s.loans.ListOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("overdue sweep: %w", err)
	}

	sent := 0
	for _, loan := range loans {
		if s.suppressed("overdue", loan.ID, now) {
			continue
		}
		book, member, err := s.loanParties(ctx, loan)
		if err != nil {
			log.Printf("sweep skip loan_id=%s err=%v", loan.ID, err)
			continue
		}
		days := loan.DaysOverdue(now)
		fine := loan.CalculateFine(now, s.dailyFineRate)
		subject, body := notify.OverdueNotice(member.FullName(), book.Title, book.Author, loan.DueDate, days, fine)
		if s.send(member.Email, subject, body) {
			s.markNotified("overdue", loan.ID, now)
			sent++
		}
	}
	log.Printf("overdue sweep done loans=%d sent=%d", len(loans), sent)
	return sent, nil
}

// RunUpcomingDueSweep reminds the holder of every loan due within
// horizonDays and returns the number of reminders sent.
func (s *Service) RunUpcomingDueSweep(ctx context.Context, now time.Time, horizonDays int) (int, error) {
	if horizonDays < 1 {
		return 0, fmt.Errorf("upcoming-due sweep: horizon must be at least one day")
	}
	horizon := time.Duration(horizonDays) * 24 * time.Hour

	loans, err := s.loans.ListDueSoon(ctx, now, horizon)
	if err != nil {
		return 0, fmt.Errorf("upcoming-due sweep: %w", err)
	}

	sent := 0
	for _, loan := range loans {
		if s.suppressed("due-soon", loan.ID, now) {
			continue
		}
		book, member, err := s.loanParties(ctx, loan)
		if err != nil {
			log.Printf("sweep skip loan_id=%s err=%v", loan.ID, err)
			continue
		}
		remaining := int(loan.DueDate.Sub(now) / (24 * time.Hour))
		subject, body := notify.DueSoonReminder(member.FullName(), book.Title, book.Author, loan.DueDate, remaining)
		if s.send(member.Email, subject, body) {
			s.markNotified("due-soon", loan.ID, now)
			sent++
		}
	}
	log.Printf("upcoming-due sweep done loans=%d sent=%d", len(loans), sent)
	return sent, nil
}

func (s *Service) loanParties(ctx context.Context, loan Loan) (catalog.Book, roster.Member, error) {
	book, err := s.books.Get(ctx, loan.BookID)
	if err != nil {
		return catalog.Book{}, roster.Member{}, err
	}
	member, err := s.members.Get(ctx, loan.MemberID)
	if err != nil {
		return catalog.Book{}, roster.Member{}, err
	}
	return book, member, nil
}

// send dispatches a notification and reports whether it went out.
// Failures are logged and swallowed.
func (s *Service) send(recipient, subject, body string) bool {
	if ok := s.notifier.Notify(recipient, subject, body); !ok {
		log.Printf("notification failed to=%s subject=%q", recipient, subject)
		return false
	}
	return true
}

func (s *Service) suppressed(kind, loanID string, now time.Time) bool {
	if s.dedupWindow <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.notified[kind+":"+loanID]
	return ok && now.Sub(last) < s.dedupWindow
}

func (s *Service) markNotified(kind, loanID string, now time.Time) {
	if s.dedupWindow <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified[kind+":"+loanID] = now
}
