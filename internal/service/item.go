// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/supakit/supakit/internal/auth"
	"github.com/supakit/supakit/internal/metrics"
	"github.com/supakit/supakit/internal/model"
	"github.com/supakit/supakit/internal/repository"
)

// Service errors.
var (
	ErrItemNotFound = errors.New("item not found")
	ErrNotItemOwner = errors.New("item belongs to another user")
	ErrTitleMissing = errors.New("title is required")
	ErrTitleTooLong = errors.New("title exceeds maximum length")
	ErrNoFieldsSet  = errors.New("no fields to update")
)

const maxTitleLength = 200

// ItemService handles item business logic. Ownership is verified here on
// every id-addressed operation, alongside whatever row-level security the
// external store enforces.
type ItemService struct {
	repo    *repository.ItemRepository
	metrics metrics.Recorder
}

// NewItemService creates a new ItemService.
func NewItemService(repo *repository.ItemRepository, recorder metrics.Recorder) *ItemService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ItemService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateItemInput defines input for creating an item.
type CreateItemInput struct {
	Title       string
	Description *string
}

// UpdateItemInput defines input for updating an item. Nil fields are left
// unchanged.
type UpdateItemInput struct {
	Title       *string
	Description *string
}

// Create inserts an item owned by the principal. The owner is always the
// caller, regardless of anything in the input.
func (s *ItemService) Create(ctx context.Context, p *auth.Principal, input CreateItemInput) (*model.Item, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	item, err := s.repo.Create(ctx, p.Token, model.ItemCreate{
		Title:       title,
		Description: input.Description,
		UserID:      p.User.ID,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncItemCreated()
	return item, nil
}

// List returns the principal's items.
func (s *ItemService) List(ctx context.Context, p *auth.Principal) ([]model.Item, error) {
	return s.repo.GetByOwner(ctx, p.Token, p.User)
}

// ListAll returns every item regardless of owner. Callers must gate this
// behind the admin role.
func (s *ItemService) ListAll(ctx context.Context, p *auth.Principal) ([]model.Item, error) {
	return s.repo.GetAll(ctx, p.Token)
}

// Get fetches one item by id, enforcing ownership. A foreign item yields
// ErrNotItemOwner, never the item's data.
func (s *ItemService) Get(ctx context.Context, p *auth.Principal, id string) (*model.Item, error) {
	return s.getOwned(ctx, p, id)
}

// Update applies the set fields of input to the principal's item.
func (s *ItemService) Update(ctx context.Context, p *auth.Principal, id string, input UpdateItemInput) (*model.Item, error) {
	if input.Title == nil && input.Description == nil {
		return nil, ErrNoFieldsSet
	}

	update := model.ItemUpdate{Description: input.Description}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		update.Title = &title
	}

	if _, err := s.getOwned(ctx, p, id); err != nil {
		return nil, err
	}

	item, err := s.repo.Update(ctx, p.Token, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	s.metrics.IncItemUpdated()
	return item, nil
}

// Delete removes the principal's item and returns its last-known values.
func (s *ItemService) Delete(ctx context.Context, p *auth.Principal, id string) (*model.Item, error) {
	if _, err := s.getOwned(ctx, p, id); err != nil {
		return nil, err
	}

	item, err := s.repo.Delete(ctx, p.Token, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	s.metrics.IncItemDeleted()
	return item, nil
}

// getOwned fetches the item and verifies the principal owns it.
func (s *ItemService) getOwned(ctx context.Context, p *auth.Principal, id string) (*model.Item, error) {
	item, err := s.repo.Get(ctx, p.Token, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !item.OwnedBy(p.User) {
		return nil, ErrNotItemOwner
	}
	return item, nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrTitleMissing
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}
