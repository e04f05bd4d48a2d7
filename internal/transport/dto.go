package transport

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/task_manager/internal/models"
)

const dateLayout = "2006-01-02"

// ParseDate parses a calendar-day value ("2006-01-02") as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *string    `json:"due_date"`
}

// PatchTaskRequest lists every patchable field explicitly; nil means
// "leave unchanged".
type PatchTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *string    `json:"due_date"`
}

// TaskListQuery carries the already-coerced filter/sort/pagination values of
// a task list request.
type TaskListQuery struct {
	Q           string
	Status      string
	Priority    string
	CategoryID  *uuid.UUID
	DueFrom     *time.Time
	DueTo       *time.Time
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Sort        string
	Page        int
	PageSize    int
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type PatchCategoryRequest struct {
	Name *string `json:"name"`
}

type CategoryListQuery struct {
	Q        string
	Page     int
	PageSize int
}

type TaskPage struct {
	Items    []models.Task `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
}

type CategoryPage struct {
	Items    []models.Category `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int64             `json:"total"`
}
