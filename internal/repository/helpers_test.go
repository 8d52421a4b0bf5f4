package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"task-manager/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createCategory(t *testing.T, db *gorm.DB, userID uint, name string) *model.Category {
	t.Helper()
	c := &model.Category{UserID: userID, Name: name}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), c))
	return c
}

func createTask(t *testing.T, db *gorm.DB, c *model.Category, title string, due time.Time, p model.Priority, done bool) *model.Task {
	t.Helper()
	task := &model.Task{
		UserID:      c.UserID,
		CategoryID:  c.ID,
		Title:       title,
		DueDate:     due,
		Priority:    p,
		IsCompleted: done,
	}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), task))
	return task
}

func day(n int) time.Time {
	return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func ptr[T any](v T) *T { return &v }
