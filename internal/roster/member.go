package roster

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a member is not found.
var ErrNotFound = errors.New("member not found")

// ErrEmailExists is returned when another member already holds the email.
var ErrEmailExists = errors.New("a member with this email already exists")

// ErrHasActiveLoans is returned when a member with unreturned loans would be deleted.
var ErrHasActiveLoans = errors.New("member has active loans")

// Member represents a library member.
type Member struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	RegistrationDate time.Time `json:"registration_date"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FullName returns the member's display name.
func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Query defines filters for listing members.
type Query struct {
	Search     string
	ActiveOnly bool
}

// CreateParams carries the fields accepted when registering a member.
type CreateParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Address   *string
	Active    *bool
}
