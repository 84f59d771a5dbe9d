package store

import (
	"context"
	"errors"
	"time"

	"libraryapi/internal/roster"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `id, first_name, last_name, email, COALESCE(phone, ''), COALESCE(address, ''),
	registration_date, active, created_at, updated_at`

// MemberPG implements roster.Repository on Postgres.
type MemberPG struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewMemberPG creates a Postgres-backed member repository.
func NewMemberPG(db *pgxpool.Pool, timeout time.Duration) *MemberPG {
	return &MemberPG{db: db, timeout: timeout}
}

func (r *MemberPG) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *MemberPG) Create(ctx context.Context, member *roster.Member) error {
	const insertSQL = `
		INSERT INTO members (id, first_name, last_name, email, phone, address, registration_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $7, $7)
	`
	member.ID = uuid.New().String()
	now := time.Now().UTC()
	member.RegistrationDate = now
	member.CreatedAt = now
	member.UpdatedAt = now

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, insertSQL,
		member.ID, member.FirstName, member.LastName, member.Email,
		member.Phone, member.Address, now, member.Active)
	if isUniqueViolation(err) {
		return roster.ErrEmailExists
	}
	return err
}

func (r *MemberPG) Get(ctx context.Context, id string) (roster.Member, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.db.QueryRow(timeoutCtx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	return scanMember(row)
}

func (r *MemberPG) GetByEmail(ctx context.Context, email string) (roster.Member, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.db.QueryRow(timeoutCtx, `SELECT `+memberColumns+` FROM members WHERE email = $1`, email)
	return scanMember(row)
}

func (r *MemberPG) Update(ctx context.Context, member *roster.Member) error {
	const updateSQL = `
		UPDATE members
		SET first_name = $2, last_name = $3, email = $4, phone = NULLIF($5, ''),
		    address = NULLIF($6, ''), active = $7, updated_at = $8
		WHERE id = $1
	`
	member.UpdatedAt = time.Now().UTC()

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, updateSQL,
		member.ID, member.FirstName, member.LastName, member.Email,
		member.Phone, member.Address, member.Active, member.UpdatedAt)
	if isUniqueViolation(err) {
		return roster.ErrEmailExists
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return roster.ErrNotFound
	}
	return nil
}

// Delete removes the member and their loan history in one transaction.
// The caller has already verified there are no active loans.
func (r *MemberPG) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	if _, err := tx.Exec(timeoutCtx, `DELETE FROM loans WHERE member_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(timeoutCtx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return roster.ErrNotFound
	}
	return tx.Commit(timeoutCtx)
}

func (r *MemberPG) List(ctx context.Context, q roster.Query) ([]roster.Member, error) {
	const listSQL = `
		SELECT ` + memberColumns + `
		FROM members
		WHERE ($1 = '' OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		AND (NOT $2 OR active)
		ORDER BY last_name, first_name
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, listSQL, q.Search, q.ActiveOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []roster.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberPG) CountActiveLoans(ctx context.Context, memberID string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var count int
	err := r.db.QueryRow(timeoutCtx,
		`SELECT COUNT(*) FROM loans WHERE member_id = $1 AND NOT returned`, memberID).Scan(&count)
	return count, err
}

func (r *MemberPG) HasOverdueLoans(ctx context.Context, memberID string, now time.Time) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var overdue bool
	err := r.db.QueryRow(timeoutCtx,
		`SELECT EXISTS (SELECT 1 FROM loans WHERE member_id = $1 AND NOT returned AND due_date < $2)`,
		memberID, now).Scan(&overdue)
	return overdue, err
}

func scanMember(row pgx.Row) (roster.Member, error) {
	var m roster.Member
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Address,
		&m.RegistrationDate, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return roster.Member{}, roster.ErrNotFound
	}
	return m, err
}
