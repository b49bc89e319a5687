package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
	"github.com/kzl/storefront-api/internal/repository"
)

var ErrCatalogEntryNotFound = errors.New("catalog entry not found")

// CatalogService manages the category and township reference lists. These
// are referenced by name from products and users, so deletes never cascade.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	townshipRepo repository.TownshipRepository
}

func NewCatalogService(categoryRepo repository.CategoryRepository, townshipRepo repository.TownshipRepository) *CatalogService {
	return &CatalogService{categoryRepo: categoryRepo, townshipRepo: townshipRepo}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name, ImageURL: req.ImageURL}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, req dto.UpdateCategoryRequest) (*model.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for i := range categories {
		if categories[i].ID != id {
			continue
		}
		category := categories[i]
		if req.Name != nil {
			category.Name = *req.Name
		}
		if req.ImageURL != nil {
			category.ImageURL = *req.ImageURL
		}
		if err := s.categoryRepo.Update(ctx, &category); err != nil {
			return nil, fmt.Errorf("update category: %w", err)
		}
		return &category, nil
	}
	return nil, ErrCatalogEntryNotFound
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *CatalogService) ListTownships(ctx context.Context) ([]model.Township, error) {
	townships, err := s.townshipRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list townships: %w", err)
	}
	return townships, nil
}

func (s *CatalogService) CreateTownship(ctx context.Context, req dto.CreateTownshipRequest) (*model.Township, error) {
	township := &model.Township{Name: req.Name}
	if err := s.townshipRepo.Create(ctx, township); err != nil {
		return nil, fmt.Errorf("create township: %w", err)
	}
	return township, nil
}

func (s *CatalogService) DeleteTownship(ctx context.Context, id string) error {
	if err := s.townshipRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete township: %w", err)
	}
	return nil
}
