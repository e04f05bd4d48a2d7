package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/repo"
	"github.com/Skotchmaster/task_manager/internal/transport"
	"github.com/Skotchmaster/task_manager/internal/util"
)

type CategoryService struct {
	Repo *repo.GormRepo
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	l := logging.FromContext(ctx).With("svc", "category.create")

	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}

	cat, err := s.Repo.CreateCategory(ctx, &models.Category{UserID: userID, Name: name})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("category_conflict", "status", 409)
			return nil, fmt.Errorf("%w: category name already exists", ErrConflict)
		}
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	cat, err := s.Repo.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return cat, nil
}

func (s *CategoryService) PatchCategory(ctx context.Context, userID, id uuid.UUID, req transport.PatchCategoryRequest) (*models.Category, error) {
	if req.Name == nil {
		return s.GetCategory(ctx, userID, id)
	}
	if *req.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}

	cat, err := s.Repo.RenameCategory(ctx, userID, id, *req.Name)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category name already exists", ErrConflict)
		}
		return nil, mapRepoErr(err)
	}
	return cat, nil
}

// DeleteCategory leaves the category's tasks in place with a null
// category_id.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.Repo.DeleteCategory(ctx, userID, id); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

func (s *CategoryService) ListCategories(ctx context.Context, userID uuid.UUID, f transport.CategoryListQuery) (*transport.CategoryPage, error) {
	page, size, offset := util.Calculate(f.Page, f.PageSize)
	total, items, err := s.Repo.ListCategories(ctx, userID, f, offset, size)
	if err != nil {
		return nil, err
	}

	return &transport.CategoryPage{Items: items, Page: page, PageSize: size, Total: total}, nil
}
