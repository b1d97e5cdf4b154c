package courier

import (
	"context"
	"fmt"
	"strings"

	"service-dispatch/internal/apperr"
	"service-dispatch/internal/domain"
)

// Service owns courier profiles and their live presence. Profiles live in the
// relational store, positions in the geo index; going offline removes the
// courier from the index so searches never see a stale position.
type Service struct {
	repo      Repository
	locations LocationIndex
}

func NewService(repo Repository, locations LocationIndex) *Service {
	return &Service{repo: repo, locations: locations}
}

func validateCreate(c *domain.Courier) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: empty name", apperr.ErrInvalid)
	}
	if !domain.ValidatePhone(c.Phone) {
		return fmt.Errorf("%w: malformed phone", apperr.ErrInvalid)
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, c.Status)
	}
	if len(c.TransportTypes) == 0 {
		return fmt.Errorf("%w: no transport types", apperr.ErrInvalid)
	}
	for _, t := range c.TransportTypes {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown transport type %q", apperr.ErrInvalid, t)
		}
	}
	return nil
}

func validateUpdate(u *domain.PartialCourierUpdate) error {
	if u.ID <= 0 {
		return fmt.Errorf("%w: bad courier id", apperr.ErrInvalid)
	}
	if u.Name == nil && u.Phone == nil && u.Status == nil && u.TransportTypes == nil && u.Online == nil {
		return fmt.Errorf("%w: empty update", apperr.ErrInvalid)
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return fmt.Errorf("%w: empty name", apperr.ErrInvalid)
	}
	if u.Phone != nil && !domain.ValidatePhone(*u.Phone) {
		return fmt.Errorf("%w: malformed phone", apperr.ErrInvalid)
	}
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, *u.Status)
	}
	if u.TransportTypes != nil {
		if len(*u.TransportTypes) == 0 {
			return fmt.Errorf("%w: no transport types", apperr.ErrInvalid)
		}
		for _, t := range *u.TransportTypes {
			if !t.Valid() {
				return fmt.Errorf("%w: unknown transport type %q", apperr.ErrInvalid, t)
			}
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: courier %d", apperr.ErrNotFound, id)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Create(ctx context.Context, c *domain.Courier) (int64, error) {
	if err := validateCreate(c); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) UpdatePartial(ctx context.Context, u domain.PartialCourierUpdate) error {
	if err := validateUpdate(&u); err != nil {
		return err
	}
	ok, err := s.repo.UpdatePartial(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: courier %d", apperr.ErrNotFound, u.ID)
	}
	if u.Online != nil && !*u.Online {
		// dropping offline also drops the live position
		if err := s.locations.Remove(ctx, u.ID); err != nil {
			return fmt.Errorf("remove location: %w", err)
		}
	}
	return nil
}

// SetLocation records the courier's reported position. Only known, online
// couriers land in the geo index.
func (s *Service) SetLocation(ctx context.Context, id int64, p domain.Point) error {
	if !p.Valid() {
		return fmt.Errorf("%w: coordinates out of range", apperr.ErrInvalid)
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !c.Online {
		return fmt.Errorf("%w: courier %d is offline", apperr.ErrConflict, id)
	}
	return s.locations.Update(ctx, id, p)
}

// SetOnline flips the courier's presence. Going online without a position is
// allowed; the courier becomes findable once it reports one.
func (s *Service) SetOnline(ctx context.Context, id int64, online bool) error {
	v := online
	return s.UpdatePartial(ctx, domain.PartialCourierUpdate{ID: id, Online: &v})
}
