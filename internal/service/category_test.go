package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/task_manager/internal/transport"
)

func TestCategoryService_Create_DuplicateNamePerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newTestUser(t, env, "a@a.com")
	bob := newTestUser(t, env, "b@b.com")

	_, err := env.Cats.CreateCategory(ctx, alice, "Work")
	require.NoError(t, err)

	_, err = env.Cats.CreateCategory(ctx, alice, "Work")
	assert.ErrorIs(t, err, ErrConflict)

	// uniqueness is per user, not global
	_, err = env.Cats.CreateCategory(ctx, bob, "Work")
	require.NoError(t, err)

	_, err = env.Cats.CreateCategory(ctx, alice, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategoryService_Patch_RenameAndConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newTestUser(t, env, "a@a.com")

	work, err := env.Cats.CreateCategory(ctx, alice, "Work")
	require.NoError(t, err)
	_, err = env.Cats.CreateCategory(ctx, alice, "Home")
	require.NoError(t, err)

	renamed, err := env.Cats.PatchCategory(ctx, alice, work.ID, transport.PatchCategoryRequest{Name: strptr("Office")})
	require.NoError(t, err)
	assert.Equal(t, "Office", renamed.Name)

	_, err = env.Cats.PatchCategory(ctx, alice, work.ID, transport.PatchCategoryRequest{Name: strptr("Home")})
	assert.ErrorIs(t, err, ErrConflict)

	// nil name leaves the category untouched
	same, err := env.Cats.PatchCategory(ctx, alice, work.ID, transport.PatchCategoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Office", same.Name)
}

func TestCategoryService_Delete_NullsTaskCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newTestUser(t, env, "a@a.com")

	cat, err := env.Cats.CreateCategory(ctx, alice, "Work")
	require.NoError(t, err)

	task, err := env.Tasks.CreateTask(ctx, alice, transport.CreateTaskRequest{
		Title:      "report",
		CategoryID: &cat.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, task.CategoryID)

	require.NoError(t, env.Cats.DeleteCategory(ctx, alice, cat.ID))

	// the task survives with a null category
	got, err := env.Tasks.GetTask(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	_, err = env.Cats.GetCategory(ctx, alice, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService_OwnershipIsInvisible(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newTestUser(t, env, "a@a.com")
	bob := newTestUser(t, env, "b@b.com")

	cat, err := env.Cats.CreateCategory(ctx, alice, "Work")
	require.NoError(t, err)

	_, err = env.Cats.GetCategory(ctx, bob, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = env.Cats.DeleteCategory(ctx, bob, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.Cats.PatchCategory(ctx, bob, cat.ID, transport.PatchCategoryRequest{Name: strptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService_List_FilterAndPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newTestUser(t, env, "a@a.com")

	for i := 1; i <= 3; i++ {
		_, err := env.Cats.CreateCategory(ctx, alice, fmt.Sprintf("Project %d", i))
		require.NoError(t, err)
	}
	_, err := env.Cats.CreateCategory(ctx, alice, "Misc")
	require.NoError(t, err)

	page, err := env.Cats.ListCategories(ctx, alice, transport.CategoryListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)

	page, err = env.Cats.ListCategories(ctx, alice, transport.CategoryListQuery{Q: "project"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	for _, c := range page.Items {
		assert.Contains(t, c.Name, "Project")
	}

	page, err = env.Cats.ListCategories(ctx, alice, transport.CategoryListQuery{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Len(t, page.Items, 1)
}
