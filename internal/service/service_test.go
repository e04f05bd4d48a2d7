package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/task_manager/internal/models"
	"github.com/Skotchmaster/task_manager/internal/repo"
	"github.com/Skotchmaster/task_manager/internal/tokens"
)

type testEnv struct {
	DB    *gorm.DB
	Repo  *repo.GormRepo
	Codec *tokens.Codec
	Auth  *AuthService
	Tasks *TaskService
	Cats  *CategoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	// one connection keeps the in-memory database alive and serializes
	// writes; the rotation guard is a conditional update, not a lock, so
	// the single-winner property is still exercised
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.RefreshToken{},
	))

	codec := &tokens.Codec{
		Secret:     []byte("test-jwt-secret"),
		Pepper:     []byte("test-pepper"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
	}

	r := &repo.GormRepo{DB: db}
	return &testEnv{
		DB:    db,
		Repo:  r,
		Codec: codec,
		Auth:  &AuthService{Repo: r, Codec: codec},
		Tasks: &TaskService{Repo: r},
		Cats:  &CategoryService{Repo: r},
	}
}
