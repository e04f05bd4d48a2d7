package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Skotchmaster/task_manager/internal/events"
	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/repo"
	"github.com/Skotchmaster/task_manager/internal/search"
	"github.com/Skotchmaster/task_manager/internal/transport"
	"github.com/Skotchmaster/task_manager/internal/util"
)

type TaskService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
	Search *search.Index
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req transport.CreateTaskRequest) (*models.Task, error) {
	l := logging.FromContext(ctx).With("svc", "task.create")

	if req.Title == "" {
		return nil, fmt.Errorf("%w: title required", ErrValidation)
	}

	task := &models.Task{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusTodo,
		Priority:    models.PriorityMed,
	}
	if req.Status != "" {
		st := models.TaskStatus(req.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
		}
		task.Status = st
	}
	if req.Priority != "" {
		pr := models.TaskPriority(req.Priority)
		if !pr.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, req.Priority)
		}
		task.Priority = pr
	}
	if req.DueDate != nil {
		due, err := transport.ParseDate(*req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		task.DueDate = &due
	}

	task, err := s.Repo.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, l, "task_created", task)
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	task, err := s.Repo.GetTask(ctx, userID, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return task, nil
}

func (s *TaskService) PatchTask(ctx context.Context, userID, id uuid.UUID, req transport.PatchTaskRequest) (*models.Task, error) {
	l := logging.FromContext(ctx).With("svc", "task.patch")

	patch := repo.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if req.Title != nil && *req.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if req.Status != nil {
		st := models.TaskStatus(*req.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		patch.Status = &st
	}
	if req.Priority != nil {
		pr := models.TaskPriority(*req.Priority)
		if !pr.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, *req.Priority)
		}
		patch.Priority = &pr
	}
	if req.DueDate != nil {
		due, err := transport.ParseDate(*req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		patch.DueDate = &due
	}

	task, err := s.Repo.PatchTask(ctx, userID, id, patch)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	s.afterWrite(ctx, l, "task_updated", task)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "task.delete")

	if err := s.Repo.DeleteTask(ctx, userID, id); err != nil {
		return mapRepoErr(err)
	}

	if err := s.Events.Publish(ctx, id.String(), map[string]any{"type": "task_deleted", "task_id": id}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}
	if err := s.Search.DeleteTask(ctx, id); err != nil {
		l.Warn("search_delete_failed", "error", err)
	}
	return nil
}

// ListTasks returns the page and the total row count over identical filters.
// Pages past the end come back empty with the total untouched.
func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, f transport.TaskListQuery) (*transport.TaskPage, error) {
	if f.Status != "" && !models.TaskStatus(f.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	if f.Priority != "" && !models.TaskPriority(f.Priority).Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, f.Priority)
	}
	if f.Sort == "" {
		f.Sort = "-created_at"
	}

	page, size, offset := util.Calculate(f.Page, f.PageSize)
	total, items, err := s.Repo.ListTasks(ctx, userID, f, offset, size)
	if err != nil {
		return nil, err
	}

	return &transport.TaskPage{Items: items, Page: page, PageSize: size, Total: total}, nil
}

// SearchTasks is the fuzzy Elasticsearch path; nil index means the feature
// is off.
func (s *TaskService) SearchTasks(ctx context.Context, userID uuid.UUID, q string, page, pageSize int) (int64, []search.Hit, error) {
	if !s.Search.Enabled() {
		return 0, nil, fmt.Errorf("search is not configured")
	}
	_, size, offset := util.Calculate(page, pageSize)
	return s.Search.SearchTasks(ctx, userID, q, offset, size)
}

func (s *TaskService) afterWrite(ctx context.Context, l *slog.Logger, event string, task *models.Task) {
	if err := s.Events.Publish(ctx, task.ID.String(), map[string]any{"type": event, "task_id": task.ID, "title": task.Title}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}
	if err := s.Search.IndexTask(ctx, task); err != nil {
		l.Warn("search_index_failed", "error", err)
	}
}

func mapRepoErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
