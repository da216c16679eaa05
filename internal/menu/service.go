package menu

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mesaqr/mesaqr-backend/internal/cart"
	"github.com/mesaqr/mesaqr-backend/pkg/db/models"
	pkgerrors "github.com/mesaqr/mesaqr-backend/pkg/errors"
	"gorm.io/gorm"
)

// FallbackCategory collects items whose category is blank.
const FallbackCategory = "Other"

// ItemView is one menu entry as served to the ordering page.
type ItemView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        int64  `json:"price"`
	PriceDisplay string `json:"price_display"`
	ImageURL     string `json:"image_url,omitempty"`
	Available    bool   `json:"available"`
}

// CategoryView groups menu entries under one category heading.
type CategoryView struct {
	Category string     `json:"category"`
	Items    []ItemView `json:"items"`
}

// CreateItemInput carries a new menu entry from the admin surface.
type CreateItemInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

// UpdateItemInput carries a partial menu entry edit; nil fields are untouched.
type UpdateItemInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	Available   *bool   `json:"available"`
}

// Service serves the customer menu and the admin menu management operations.
type Service interface {
	Categories(ctx context.Context) ([]CategoryView, error)
	ListAll(ctx context.Context) ([]models.MenuItem, error)
	Create(ctx context.Context, input CreateItemInput) (*models.MenuItem, error)
	Update(ctx context.Context, id uint, input UpdateItemInput) (*models.MenuItem, error)
	SetAvailability(ctx context.Context, id uint, available bool) error
}

type service struct {
	repo Repository
}

// NewService builds the menu service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	return &service{repo: repo}, nil
}

// Categories returns the available menu grouped by category, sorted by
// category name with the fallback bucket last.
func (s *service) Categories(ctx context.Context) ([]CategoryView, error) {
	items, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu")
	}

	grouped := make(map[string][]ItemView)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = FallbackCategory
		}
		grouped[category] = append(grouped[category], toItemView(item))
	}

	views := make([]CategoryView, 0, len(grouped))
	for category, entries := range grouped {
		views = append(views, CategoryView{Category: category, Items: entries})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Category == FallbackCategory {
			return false
		}
		if views[j].Category == FallbackCategory {
			return true
		}
		return views[i].Category < views[j].Category
	})
	return views, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu")
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.MenuItem, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	item := &models.MenuItem{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Available:   true,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uint, input UpdateItemInput) (*models.MenuItem, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.mustFind(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	return s.mustFind(ctx, id)
}

func (s *service) SetAvailability(ctx context.Context, id uint, available bool) error {
	if _, err := s.mustFind(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"available": available}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update availability")
	}
	return nil
}

func (s *service) mustFind(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
	}
	return item, nil
}

func toItemView(item models.MenuItem) ItemView {
	return ItemView{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price,
		PriceDisplay: cart.FormatAmount(item.Price),
		ImageURL:     item.ImageURL,
		Available:    item.Available,
	}
}
