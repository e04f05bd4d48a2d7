package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/transport"
)

func (r *GormRepo) categoryFilter(ctx context.Context, userID uuid.UUID, f transport.CategoryListQuery) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Category{}).Where("user_id = ?", userID)
	if f.Q != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Q)+"%")
	}
	return q
}

// ListCategories always orders by created_at descending; there is no sort
// parameter for categories.
func (r *GormRepo) ListCategories(ctx context.Context, userID uuid.UUID, f transport.CategoryListQuery, offset, limit int) (int64, []models.Category, error) {
	var total int64
	if err := r.categoryFilter(ctx, userID, f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Category, 0, limit)
	if err := r.categoryFilter(ctx, userID, f).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// CreateCategory translates any create failure to ErrDuplicate: the only
// constraint on the table is the per-user unique name.
func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if err := r.DB.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, ErrDuplicate
	}
	return cat, nil
}

func (r *GormRepo) RenameCategory(ctx context.Context, userID, id uuid.UUID, name string) (*models.Category, error) {
	cat, err := r.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	cat.Name = name
	if err := r.DB.WithContext(ctx).Save(cat).Error; err != nil {
		return nil, ErrDuplicate
	}
	return cat, nil
}

// DeleteCategory nulls category_id on the owner's tasks and removes the
// category in one transaction; the tasks themselves survive.
func (r *GormRepo) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("user_id = ? AND category_id = ?", userID, id).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ?", userID).Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
