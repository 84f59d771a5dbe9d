package catalog

import (
	"context"
	"errors"
	"strings"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new book. The book starts out available.
func (s *Service) Create(ctx context.Context, p CreateParams) (Book, error) {
	book := Book{
		Title:           strings.TrimSpace(p.Title),
		Author:          strings.TrimSpace(p.Author),
		ISBN:            strings.TrimSpace(p.ISBN),
		Category:        p.Category,
		PublicationYear: p.PublicationYear,
		Description:     p.Description,
		Available:       true,
	}

	if err := s.checkISBN(ctx, book.ISBN, ""); err != nil {
		return Book{}, err
	}

	if err := s.repo.Create(ctx, &book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// Get returns a book by id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.Get(ctx, id)
}

// List returns books matching the query.
func (s *Service) List(ctx context.Context, q Query) ([]Book, error) {
	return s.repo.List(ctx, q)
}

// Update applies a partial update to an existing book.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (Book, error) {
	book, err := s.repo.Get(ctx, id)
	if err != nil {
		return Book{}, err
	}

	if p.Title != nil {
		book.Title = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		book.Author = strings.TrimSpace(*p.Author)
	}
	if p.ISBN != nil {
		isbn := strings.TrimSpace(*p.ISBN)
		if err := s.checkISBN(ctx, isbn, book.ID); err != nil {
			return Book{}, err
		}
		book.ISBN = isbn
	}
	if p.Category != nil {
		book.Category = *p.Category
	}
	if p.PublicationYear != nil {
		book.PublicationYear = p.PublicationYear
	}
	if p.Description != nil {
		book.Description = *p.Description
	}
	if p.Available != nil {
		book.Available = *p.Available
	}

	if err := s.repo.Update(ctx, &book); err != nil {
		return Book{}, err
	}
	return book, nil
}

// Delete removes a book along with its loan history. A book with any
// active loan cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	active, err := s.repo.CountActiveLoans(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrHasActiveLoans
	}
	return s.repo.Delete(ctx, id)
}

// checkISBN rejects an ISBN already held by a different book. Empty
// ISBNs are allowed and never conflict.
func (s *Service) checkISBN(ctx context.Context, isbn, selfID string) error {
	if isbn == "" {
		return nil
	}
	existing, err := s.repo.GetByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrISBNExists
	}
	return nil
}
