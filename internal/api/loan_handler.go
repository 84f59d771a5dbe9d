package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"libraryapi/internal/httpx"
	"libraryapi/internal/ledger"

	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	service     *ledger.Service
	horizonDays int
}

func NewLoanHandler(service *ledger.Service, sweepHorizonDays int) *LoanHandler {
	if sweepHorizonDays < 1 {
		sweepHorizonDays = 3
	}
	return &LoanHandler{service: service, horizonDays: sweepHorizonDays}
}

type createLoanRequest struct {
	BookID   string `json:"book_id" validate:"required"`
	MemberID string `json:"member_id" validate:"required"`
	LoanDays *int   `json:"loan_days" validate:"omitempty,gte=1"`
	Notes    string `json:"notes"`
}

// loanView decorates a loan with the derived fields clients render.
type loanView struct {
	ledger.Loan
	IsOverdue   bool            `json:"is_overdue"`
	DaysOverdue int             `json:"days_overdue"`
	Fine        decimal.Decimal `json:"fine"`
}

func (h *LoanHandler) view(l ledger.Loan, now time.Time) loanView {
	return loanView{
		Loan:        l,
		IsOverdue:   l.IsOverdue(now),
		DaysOverdue: l.DaysOverdue(now),
		Fine:        l.CalculateFine(now, h.service.DailyFineRate()),
	}
}

// List handles GET /api/loans
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status := query.Get("status")
	if status == "" {
		status = ledger.StatusAll
	}
	if !ledger.ValidStatus(status) {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be one of: all, active, returned, overdue", nil)
		return
	}

	loans, err := h.service.ListLoans(r.Context(), ledger.Query{
		Status:   status,
		MemberID: query.Get("member_id"),
		BookID:   query.Get("book_id"),
	})
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	now := time.Now().UTC()
	views := make([]loanView, 0, len(loans))
	for _, l := range loans {
		views = append(views, h.view(l, now))
	}

	httpx.JSONSuccess(r, w, views, map[string]interface{}{"count": len(views)})
}

// Get handles GET /api/loans/{id}
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.GetLoan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, h.view(loan, time.Now().UTC()), nil)
}

// Create handles POST /api/loans
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := validateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	periodDays := h.service.LoanPeriodDays()
	if req.LoanDays != nil {
		periodDays = *req.LoanDays
	}

	loan, err := h.service.CreateLoan(r.Context(), ledger.CreateParams{
		BookID:     req.BookID,
		MemberID:   req.MemberID,
		PeriodDays: periodDays,
		Notes:      req.Notes,
	})
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	httpx.JSONCreated(r, w, h.view(loan, time.Now().UTC()))
}

// Return handles POST /api/loans/{id}/return
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ReturnLoan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	httpx.JSONSuccess(r, w, map[string]interface{}{
		"loan": h.view(result.Loan, time.Now().UTC()),
		"fine": result.Fine,
	}, nil)
}

// SweepOverdue handles POST /api/sweeps/overdue
func (h *LoanHandler) SweepOverdue(w http.ResponseWriter, r *http.Request) {
	sent, err := h.service.RunOverdueSweep(r.Context(), time.Now().UTC())
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, map[string]interface{}{"notifications_sent": sent}, nil)
}

// SweepUpcomingDue handles POST /api/sweeps/upcoming-due
func (h *LoanHandler) SweepUpcomingDue(w http.ResponseWriter, r *http.Request) {
	horizon := h.horizonDays
	if v := r.URL.Query().Get("horizon_days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "horizon_days must be a positive integer", nil)
			return
		}
		horizon = parsed
	}

	sent, err := h.service.RunUpcomingDueSweep(r.Context(), time.Now().UTC(), horizon)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, map[string]interface{}{"notifications_sent": sent}, nil)
}
