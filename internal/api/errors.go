package api

import (
	"errors"
	"net/http"

	"libraryapi/internal/catalog"
	"libraryapi/internal/httpx"
	"libraryapi/internal/ledger"
	"libraryapi/internal/roster"
)

// writeDomainError maps domain errors onto the API error taxonomy:
// not-found, validation (malformed or non-unique input), and conflict
// (a state rule blocked the operation). Anything unrecognized is a 500.
func writeDomainError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, roster.ErrNotFound),
		errors.Is(err, ledger.ErrNotFound):
		httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", unwrapMessage(err), nil)

	case errors.Is(err, catalog.ErrISBNExists),
		errors.Is(err, roster.ErrEmailExists),
		errors.Is(err, ledger.ErrInvalidPeriod):
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", unwrapMessage(err), nil)

	case errors.Is(err, ledger.ErrBookUnavailable),
		errors.Is(err, ledger.ErrMemberInactive),
		errors.Is(err, ledger.ErrAlreadyReturned),
		errors.Is(err, catalog.ErrHasActiveLoans),
		errors.Is(err, roster.ErrHasActiveLoans):
		httpx.JSONError(r, w, http.StatusConflict, "CONFLICT", unwrapMessage(err), nil)

	default:
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// unwrapMessage strips operation prefixes so clients see the sentinel
// error text, not the internal call chain.
func unwrapMessage(err error) string {
	for _, sentinel := range []error{
		catalog.ErrNotFound, roster.ErrNotFound, ledger.ErrNotFound,
		catalog.ErrISBNExists, roster.ErrEmailExists, ledger.ErrInvalidPeriod,
		ledger.ErrBookUnavailable, ledger.ErrMemberInactive, ledger.ErrAlreadyReturned,
		catalog.ErrHasActiveLoans, roster.ErrHasActiveLoans,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
