package catalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrISBNExists is returned when another book already holds the ISBN.
var ErrISBNExists = errors.New("a book with this ISBN already exists")

// ErrHasActiveLoans is returned when a book with unreturned loans would be deleted.
var ErrHasActiveLoans = errors.New("book is currently on loan")

// Book represents a book in the library.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn,omitempty"`
	Category        string    `json:"category,omitempty"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	Description     string    `json:"description,omitempty"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsAvailable reports whether the book can be loaned out.
func (b Book) IsAvailable() bool {
	return b.Available
}

// Query defines filters for listing books.
type Query struct {
	Search        string
	Category      string
	AvailableOnly bool
}

// CreateParams carries the fields accepted when creating a book.
type CreateParams struct {
	Title           string
	Author          string
	ISBN            string
	Category        string
	PublicationYear *int
	Description     string
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Title           *string
	Author          *string
	ISBN            *string
	Category        *string
	PublicationYear *int
	Description     *string
	Available       *bool
}
