package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"task-manager/internal/model"
)

func TestCategoryRepository_GetOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "ann")

	first, created, err := repo.GetOrCreate(ctx, user.ID, model.DefaultCategoryName)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.GetOrCreate(ctx, user.ID, model.DefaultCategoryName)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	n, err := repo.Count(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCategoryRepository_UniquePerUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	bob := createUser(t, db, "bob")

	createCategory(t, db, ann.ID, "Work")
	createCategory(t, db, bob.ID, "Work")

	err := repo.Create(ctx, &model.Category{UserID: ann.ID, Name: "Work"})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestCategoryRepository_NameTaken(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	bob := createUser(t, db, "bob")
	work := createCategory(t, db, ann.ID, "Work")

	taken, err := repo.NameTaken(ctx, ann.ID, "wORK", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.NameTaken(ctx, ann.ID, "work", work.ID)
	require.NoError(t, err)
	assert.False(t, taken, "editing a category must not collide with itself")

	taken, err = repo.NameTaken(ctx, bob.ID, "Work", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestCategoryRepository_NameTakenFoldsUnicode(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	createCategory(t, db, ann.ID, "Épicerie")

	taken, err := repo.NameTaken(ctx, ann.ID, "épicerie", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	err = repo.Create(ctx, &model.Category{UserID: ann.ID, Name: "ÉPICERIE"})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "storage must reject case variants, got %v", err)
}

func TestCategoryRepository_UpdateRefreshesKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	c := createCategory(t, db, ann.ID, "Work")

	c.Name = "Büro"
	require.NoError(t, repo.Update(ctx, c))

	taken, err := repo.NameTaken(ctx, ann.ID, "BÜRO", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.NameTaken(ctx, ann.ID, "work", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestCategoryRepository_GetOrCreateIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	existing := createCategory(t, db, ann.ID, "general")

	got, created, err := repo.GetOrCreate(ctx, ann.ID, model.DefaultCategoryName)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, got.ID)
}

func TestCategoryRepository_FindByID_Scoped(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	bob := createUser(t, db, "bob")
	work := createCategory(t, db, ann.ID, "Work")

	got, err := repo.FindByID(ctx, ann.ID, work.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", got.Name)

	_, err = repo.FindByID(ctx, bob.ID, work.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCategoryRepository_ListWithStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	bob := createUser(t, db, "bob")

	work := createCategory(t, db, ann.ID, "Work")
	home := createCategory(t, db, ann.ID, "Home")
	createCategory(t, db, bob.ID, "Bob's")

	createTask(t, db, work, "a", day(1), model.PriorityNormal, false)
	createTask(t, db, work, "b", day(2), model.PriorityNormal, false)
	createTask(t, db, work, "c", day(3), model.PriorityNormal, true)

	stats, err := repo.ListWithStats(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, home.ID, stats[0].ID, "ordered by name")
	assert.Zero(t, stats[0].TotalTasks)

	assert.Equal(t, work.ID, stats[1].ID)
	assert.EqualValues(t, 3, stats[1].TotalTasks)
	assert.EqualValues(t, 2, stats[1].PendingTasks)
	assert.EqualValues(t, 1, stats[1].CompletedTasks)
}

func TestCategoryRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	work := createCategory(t, db, ann.ID, "Work")
	home := createCategory(t, db, ann.ID, "Home")

	for i := 0; i < 4; i++ {
		createTask(t, db, work, "w", day(i), model.PriorityLow, i%2 == 0)
	}
	createTask(t, db, home, "h", day(1), model.PriorityLow, false)

	removed, err := repo.Delete(ctx, ann.ID, work.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, removed)

	n, err := tasks.Count(ctx, TaskQuery{UserID: ann.ID, CategoryID: work.ID})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = tasks.Count(ctx, TaskQuery{UserID: ann.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.FindByID(ctx, ann.ID, work.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCategoryRepository_DeleteOtherUsersCategory(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	bob := createUser(t, db, "bob")
	work := createCategory(t, db, ann.ID, "Work")
	createTask(t, db, work, "keep", day(1), model.PriorityLow, false)

	_, err := repo.Delete(ctx, bob.ID, work.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.FindByID(ctx, ann.ID, work.ID)
	assert.NoError(t, err)
}

func TestCategoryRepository_ForeignKeyCascade(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ann := createUser(t, db, "ann")
	work := createCategory(t, db, ann.ID, "Work")
	createTask(t, db, work, "w", day(1), model.PriorityLow, false)

	// Bypass the repository: the schema itself must cascade.
	require.NoError(t, db.WithContext(ctx).Exec("DELETE FROM categories WHERE id = ?", work.ID).Error)

	n, err := NewTaskRepository(db).Count(ctx, TaskQuery{UserID: ann.ID})
	require.NoError(t, err)
	assert.Zero(t, n)
}
