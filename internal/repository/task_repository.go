package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// TaskQuery selects a user's tasks. Zero-valued fields do not filter.
type TaskQuery struct {
	UserID     uint
	Completed  *bool
	Priority   model.Priority
	CategoryID uint
	// Search matches title or description as a case-insensitive substring.
	Search string
	Limit  int
	Offset int
}

// TaskCounts are a user's task totals.
type TaskCounts struct {
	Total     int64
	Pending   int64
	Completed int64
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

func (r *TaskRepository) MarkCompleted(ctx context.Context, task *model.Task) error {
	task.IsCompleted = true
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// Delete removes a task for the given user. It returns gorm.ErrRecordNotFound
// when nothing matched.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete task: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteCompleted removes one completed task of the user. Incomplete tasks
// are left alone and reported as not found.
func (r *TaskRepository) DeleteCompleted(ctx context.Context, userID, taskID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ? AND is_completed = ?", userID, taskID, true).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete archived task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete archived task: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteAllCompleted removes every completed task of the user.
func (r *TaskRepository) DeleteAllCompleted(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND is_completed = ?", userID, true).Delete(&model.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete archived tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// List returns matching tasks: incomplete first, then by due date, then by
// descending priority.
func (r *TaskRepository) List(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	var tasks []model.Task
	db := r.db.WithContext(ctx).Scopes(q.scope).
		Order("is_completed ASC").
		Order("due_date ASC").
		Order(model.PriorityRankSQL + " DESC").
		Order("id ASC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	if err := db.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Count ignores Limit and Offset.
func (r *TaskRepository) Count(ctx context.Context, q TaskQuery) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Scopes(q.scope).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) Counts(ctx context.Context, userID uint) (TaskCounts, error) {
	var rows []struct {
		IsCompleted bool
		N           int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("is_completed, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("is_completed").
		Scan(&rows).Error; err != nil {
		return TaskCounts{}, fmt.Errorf("count tasks: %w", err)
	}

	var c TaskCounts
	for _, row := range rows {
		c.Total += row.N
		if row.IsCompleted {
			c.Completed += row.N
		} else {
			c.Pending += row.N
		}
	}
	return c, nil
}

func (q TaskQuery) scope(db *gorm.DB) *gorm.DB {
	db = db.Where("user_id = ?", q.UserID)
	if q.Completed != nil {
		db = db.Where("is_completed = ?", *q.Completed)
	}
	if q.Priority != "" {
		db = db.Where("priority = ?", q.Priority)
	}
	if q.CategoryID != 0 {
		db = db.Where("category_id = ?", q.CategoryID)
	}
	if q.Search != "" {
		pattern := "%" + escapeLike(model.Fold(q.Search)) + "%"
		db = db.Where(`(title_key LIKE ? ESCAPE '\' OR description_key LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
