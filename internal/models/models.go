package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusTodo  TaskStatus = "todo"
	StatusDoing TaskStatus = "doing"
	StatusDone  TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow  TaskPriority = "low"
	PriorityMed  TaskPriority = "med"
	PriorityHigh TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMed, PriorityHigh:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"          json:"id"`
	Email        string    `gorm:"size:320;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null"             json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	Categories    []Category     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tasks         []Task         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RefreshTokens []RefreshToken `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RefreshToken stores the digest of an issued refresh token, never the raw
// token. A record is live while revoked_at is null and expires_at is in the
// future; rotation and logout revoke it in place so replay stays detectable.
type RefreshToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"          json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null"      json:"user_id"`
	JTI       string     `gorm:"size:128;uniqueIndex;not null" json:"jti"`
	TokenHash string     `gorm:"size:64;not null"              json:"-"`
	ExpiresAt time.Time  `gorm:"not null"                      json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                                         json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uq_categories_user_name;not null" json:"user_id"`
	Name      string    `gorm:"size:80;uniqueIndex:uq_categories_user_name;not null"         json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Task struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"          json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;index;not null"      json:"user_id"`
	CategoryID  *uuid.UUID   `gorm:"type:uuid;index"               json:"category_id"`
	Title       string       `gorm:"size:140;not null"             json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `gorm:"size:16;not null;default:todo" json:"status"`
	Priority    TaskPriority `gorm:"size:16;not null;default:med"  json:"priority"`
	DueDate     *time.Time   `gorm:"type:date"                     json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
