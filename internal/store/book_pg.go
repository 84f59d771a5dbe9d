package store

import (
	"context"
	"errors"
	"time"

	"libraryapi/internal/catalog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, title, author, COALESCE(isbn, ''), COALESCE(category, ''),
	publication_year, COALESCE(description, ''), available, created_at, updated_at`

// BookPG implements catalog.Repository on Postgres.
type BookPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewBookPG creates a Postgres-backed book repository.
func NewBookPG(db *pgxpool.Pool, timeout time.Duration) *BookPG {
	return &BookPG{db: db, timeout: timeout}
}

func (r *BookPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *BookPG) Create(ctx context.Context, book *catalog.Book) error {
	const insertSQL = `
		INSERT INTO books (id, title, author, isbn, category, publication_year, description, available, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, NULLIF($7, ''), $8, $9, $9)
	`
	book.ID = uuid.New().String()
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, insertSQL,
		book.ID, book.Title, book.Author, book.ISBN, book.Category,
		book.PublicationYear, book.Description, book.Available, now)
	if isUniqueViolation(err) {
		return catalog.ErrISBNExists
	}
	return err
}

func (r *BookPG) Get(ctx context.Context, id string) (catalog.Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.db.QueryRow(timeoutCtx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	return scanBook(row)
}

func (r *BookPG) GetByISBN(ctx context.Context, isbn string) (catalog.Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.db.QueryRow(timeoutCtx, `SELECT `+bookColumns+` FROM books WHERE isbn = $1`, isbn)
	return scanBook(row)
}

func (r *BookPG) Update(ctx context.Context, book *catalog.Book) error {
	const updateSQL = `
		UPDATE books
		SET title = $2, author = $3, isbn = NULLIF($4, ''), category = NULLIF($5, ''),
		    publication_year = $6, description = NULLIF($7, ''), available = $8, updated_at = $9
		WHERE id = $1
	`
	book.UpdatedAt = time.Now().UTC()

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, updateSQL,
		book.ID, book.Title, book.Author, book.ISBN, book.Category,
		book.PublicationYear, book.Description, book.Available, book.UpdatedAt)
	if isUniqueViolation(err) {
		return catalog.ErrISBNExists
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// Delete removes the book and its loan history in one transaction. The
// caller has already verified there are no active loans.
func (r *BookPG) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if _, err := tx.Exec(timeoutCtx, `DELETE FROM loans WHERE book_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrNotFound
	}
	return tx.Commit(timeoutCtx)
}

func (r *BookPG) List(ctx context.Context, q catalog.Query) ([]catalog.Book, error) {
	const listSQL = `
		SELECT ` + bookColumns + `
		FROM books
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%' OR isbn ILIKE '%' || $1 || '%')
		AND ($2 = '' OR category = $2)
		AND (NOT $3 OR available)
		ORDER BY title
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, listSQL, q.Search, q.Category, q.AvailableOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []catalog.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookPG) CountActiveLoans(ctx context.Context, bookID string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var count int
	err := r.db.QueryRow(timeoutCtx,
		`SELECT COUNT(*) FROM loans WHERE book_id = $1 AND NOT returned`, bookID).Scan(&count)
	return count, err
}

func scanBook(row pgx.Row) (catalog.Book, error) {
	var b catalog.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category,
		&b.PublicationYear, &b.Description, &b.Available, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Book{}, catalog.ErrNotFound
	}
	return b, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
