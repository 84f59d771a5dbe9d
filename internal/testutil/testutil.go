package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/ledger"
	"libraryapi/internal/roster"
)

// TestBook is a mock book for testing
var TestBook = catalog.Book{
	ID:        "test-book-id-789",
	Title:     "Test Book Title",
	Author:    "Test Author",
	ISBN:      "9780123456786",
	Category:  "Fiction",
	Available: true,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// TestMember is a mock member for testing
var TestMember = roster.Member{
	ID:               "test-member-id-123",
	FirstName:        "Test",
	LastName:         "Member",
	Email:            "test.member@example.com",
	RegistrationDate: time.Now(),
	Active:           true,
	CreatedAt:        time.Now(),
	UpdatedAt:        time.Now(),
}

// NewActiveLoan builds an unreturned loan between TestBook and TestMember.
func NewActiveLoan(loanDate time.Time, periodDays int) ledger.Loan {
	return ledger.Loan{
		ID:        "test-loan-id-456",
		BookID:    TestBook.ID,
		MemberID:  TestMember.ID,
		LoanDate:  loanDate,
		DueDate:   loanDate.AddDate(0, 0, periodDays),
		Returned:  false,
		CreatedAt: loanDate,
		UpdatedAt: loanDate,
	}
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
