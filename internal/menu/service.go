package menu

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/shared"
)

// Service wraps menu management and the public lookup.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every item owned by the business, display order.
func (s *Service) List(ctx context.Context, businessID uuid.UUID) ([]Item, error) {
	return s.repo.ListByBusiness(ctx, businessID)
}

// PublicList returns the unauthenticated projection of available items.
func (s *Service) PublicList(ctx context.Context, businessID uuid.UUID) ([]PublicItem, error) {
	items, err := s.repo.ListAvailable(ctx, businessID)
	if err != nil {
		return nil, err
	}
	public := make([]PublicItem, 0, len(items))
	for _, item := range items {
		public = append(public, PublicItem{
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
		})
	}
	return public, nil
}

// Create adds an item at the end of the menu.
func (s *Service) Create(ctx context.Context, businessID uuid.UUID, req CreateItemRequest) (*Item, error) {
	position, err := s.repo.NextPosition(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("next menu position: %w", err)
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	item := Item{
		ID:          uuid.New(),
		BusinessID:  businessID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Available:   available,
		Position:    position,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return s.repo.Get(ctx, item.ID)
}

// Update edits an owned item.
func (s *Service) Update(ctx context.Context, businessID, id uuid.UUID, req UpdateItemRequest) (*Item, error) {
	if err := s.checkOwner(ctx, businessID, id); err != nil {
		return nil, err
	}
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes an owned item.
func (s *Service) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	if err := s.checkOwner(ctx, businessID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) checkOwner(ctx context.Context, businessID, id uuid.UUID) error {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if item.BusinessID != businessID {
		return shared.ErrNotOwner
	}
	return nil
}
