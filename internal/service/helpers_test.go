package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-manager/internal/form"
	"task-manager/internal/model"
	"task-manager/internal/repository"
)

// fixedNow is mid-afternoon so "today" is unambiguous in any zone test.
var fixedNow = time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)

type testEnv struct {
	db         *gorm.DB
	users      *repository.UserRepository
	categories *CategoryService
	tasks      *TaskService
	accounts   *AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	accounts := NewAccountService(userRepo, 8)
	accounts.hashCost = bcrypt.MinCost

	return &testEnv{
		db:         db,
		users:      userRepo,
		categories: NewCategoryService(categoryRepo, taskRepo),
		tasks:      NewTaskService(taskRepo, categoryRepo, func() time.Time { return fixedNow }),
		accounts:   accounts,
	}
}

func (e *testEnv) user(t *testing.T, username string) uint {
	t.Helper()
	u := &model.User{Username: username, PasswordHash: "x"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u.ID
}

func (e *testEnv) category(t *testing.T, userID uint, name string) *model.Category {
	t.Helper()
	c, err := e.categories.Create(context.Background(), userID, CategoryInput{Name: name})
	require.NoError(t, err)
	return c
}

func (e *testEnv) task(t *testing.T, userID uint, title string, dueInDays int, categoryID uint) *model.Task {
	t.Helper()
	task, err := e.tasks.CreateTask(context.Background(), userID, TaskInput{
		Title:      title,
		DueDate:    dueIn(dueInDays),
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return task
}

func dueIn(days int) string {
	return fixedNow.AddDate(0, 0, days).Format(model.DateLayout)
}

func fieldErrors(t *testing.T, err error) form.Errors {
	t.Helper()
	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Fields
}
