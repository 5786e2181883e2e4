package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/records"
)

// CategoryService manages categories. Removing a category leaves its
// transactions untouched.
type CategoryService struct {
	categories records.CategoryRepository
	now        Clock
}

func NewCategoryService(store *records.Store) *CategoryService {
	return &CategoryService{categories: store.Categories, now: time.Now}
}

func (s *CategoryService) InsertCategory(ctx context.Context, name, shortName, description string) (core.Category, error) {
	in := newItemInput(name, shortName, description)
	if err := check(in); err != nil {
		return core.Category{}, err
	}

	c := core.Category{ListItem: core.NewListItem(in.Name, in.ShortName, in.Description, s.now())}
	stored, err := s.categories.Insert(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		applog.FieldComponent, applog.ComponentCategory,
		applog.FieldCategoryID, stored.ID)
	return stored, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, c core.Category) error {
	in := newItemInput(c.Name, c.ShortName, c.Description)
	if err := check(in); err != nil {
		return err
	}

	stored, err := s.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	if stored.State.IsRemoved() {
		return fmt.Errorf("update category %d: %w", c.ID, records.ErrNotFound)
	}

	stored.Name, stored.ShortName, stored.Description = in.Name, in.ShortName, in.Description
	stored.Foreground, stored.Background = c.Foreground, c.Background
	if err := s.categories.Update(ctx, stored); err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.State.IsRemoved() {
		return nil
	}

	c.Remove(s.now())
	if err := s.categories.Update(ctx, c); err != nil {
		return fmt.Errorf("remove category %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Category removed",
		applog.FieldComponent, applog.ComponentCategory,
		applog.FieldOperation, applog.OpDelete,
		applog.FieldCategoryID, id)
	return nil
}

// GetCategories returns the active categories in store order.
func (s *CategoryService) GetCategories(ctx context.Context) ([]core.Category, error) {
	all, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return active(all), nil
}

// GetAllCategories includes removed categories, for labelling old transactions.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]core.Category, error) {
	all, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return all, nil
}

func (s *CategoryService) Get(ctx context.Context, id int) (core.Category, error) {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (s *CategoryService) Count(ctx context.Context) (int, error) {
	categories, err := s.GetCategories(ctx)
	if err != nil {
		return 0, err
	}
	return len(categories), nil
}

func (s *CategoryService) Stored(ctx context.Context) (int, error) {
	categories, err := s.GetAllCategories(ctx)
	if err != nil {
		return 0, err
	}
	return len(categories), nil
}
