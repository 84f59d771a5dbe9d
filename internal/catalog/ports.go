package catalog

import (
	"context"
)

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, book *Book) error
	Get(ctx context.Context, id string) (Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	Update(ctx context.Context, book *Book) error
	// Delete removes the book and its loan history.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q Query) ([]Book, error)
	CountActiveLoans(ctx context.Context, bookID string) (int, error)
}
