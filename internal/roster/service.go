package roster

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service provides member-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new roster service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new member. New members start out active.
func (s *Service) Create(ctx context.Context, p CreateParams) (Member, error) {
	member := Member{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Email:     normalizeEmail(p.Email),
		Phone:     p.Phone,
		Address:   p.Address,
		Active:    true,
	}

	if err := s.checkEmail(ctx, member.Email, ""); err != nil {
		return Member{}, err
	}

	if err := s.repo.Create(ctx, &member); err != nil {
		return Member{}, err
	}
	return member, nil
}

// Get returns a member by id.
func (s *Service) Get(ctx context.Context, id string) (Member, error) {
	return s.repo.Get(ctx, id)
}

// List returns members matching the query.
func (s *Service) List(ctx context.Context, q Query) ([]Member, error) {
	return s.repo.List(ctx, q)
}

// Update applies a partial update to an existing member.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (Member, error) {
	member, err := s.repo.Get(ctx, id)
	if err != nil {
		return Member{}, err
	}

	if p.FirstName != nil {
		member.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		member.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		if err := s.checkEmail(ctx, email, member.ID); err != nil {
			return Member{}, err
		}
		member.Email = email
	}
	if p.Phone != nil {
		member.Phone = *p.Phone
	}
	if p.Address != nil {
		member.Address = *p.Address
	}
	if p.Active != nil {
		member.Active = *p.Active
	}

	if err := s.repo.Update(ctx, &member); err != nil {
		return Member{}, err
	}
	return member, nil
}

// Delete removes a member along with their loan history. A member with
// any active loan cannot be deleted.
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

// CountActiveLoans reports how many books the member currently has out.
func (s *Service) CountActiveLoans(ctx context.Context, id string) (int, error) {
	return s.repo.CountActiveLoans(ctx, id)
}

// HasOverdueLoans reports whether the member holds any overdue loan.
func (s *Service) HasOverdueLoans(ctx context.Context, id string, now time.Time) (bool, error) {
	return s.repo.HasOverdueLoans(ctx, id, now)
}

func (s *Service) checkEmail(ctx context.Context, email, selfID string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrEmailExists
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
