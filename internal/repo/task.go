package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/transport"
)

// Columns the task list may sort on. Priority sorts by its stored string
// value, so ascending order is high, low, med.
var taskSortColumns = map[string]string{
	"created_at": "created_at",
	"due_date":   "due_date",
	"priority":   "priority",
	"updated_at": "updated_at",
	"title":      "title",
}

func taskOrder(sort string) string {
	field, desc := sort, false
	if strings.HasPrefix(sort, "-") {
		field, desc = sort[1:], true
	}
	col, ok := taskSortColumns[field]
	if !ok {
		return "created_at DESC"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

const dateOnly = "2006-01-02"

// taskFilter builds the shared predicate set. The count query and the page
// query both call it, so their filters cannot diverge.
func (r *GormRepo) taskFilter(ctx context.Context, userID uuid.UUID, f transport.TaskListQuery) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)

	if f.Q != "" {
		like := "%" + strings.ToLower(f.Q) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.DueFrom != nil {
		q = q.Where("due_date >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		q = q.Where("due_date <= ?", *f.DueTo)
	}
	if f.CreatedFrom != nil {
		q = q.Where("DATE(created_at) >= ?", f.CreatedFrom.Format(dateOnly))
	}
	if f.CreatedTo != nil {
		q = q.Where("DATE(created_at) <= ?", f.CreatedTo.Format(dateOnly))
	}
	return q
}

func (r *GormRepo) ListTasks(ctx context.Context, userID uuid.UUID, f transport.TaskListQuery, offset, limit int) (int64, []models.Task, error) {
	var total int64
	if err := r.taskFilter(ctx, userID, f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Task, 0, limit)
	if err := r.taskFilter(ctx, userID, f).
		Order(taskOrder(f.Sort)).
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) GetTask(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *GormRepo) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := r.DB.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// TaskPatch lists the patchable fields explicitly; nil leaves a field as is.
type TaskPatch struct {
	Title       *string
	Description *string
	CategoryID  *uuid.UUID
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
}

func (r *GormRepo) PatchTask(ctx context.Context, userID, id uuid.UUID, patch TaskPatch) (*models.Task, error) {
	task, err := r.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.CategoryID != nil {
		task.CategoryID = patch.CategoryID
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	if err := r.DB.WithContext(ctx).Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (r *GormRepo) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
