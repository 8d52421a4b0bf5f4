package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/form"
	"task-manager/internal/model"
	"task-manager/internal/repository"
)

const pastDueDateMsg = "Due date cannot be in the past. Please select today or a future date."

// TaskInput is the submitted task form. DueDate uses model.DateLayout.
// A zero CategoryID selects the default category on create and keeps the
// current one on update.
type TaskInput struct {
	Title       string `json:"title" validate:"required,max=40"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Priority    string `json:"priority" validate:"oneof=low normal high critical"`
	CategoryID  uint   `json:"category"`
}

// normalize trims the text fields and fills in the default priority.
func (in TaskInput) normalize() TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.DueDate = strings.TrimSpace(in.DueDate)
	in.Priority = strings.TrimSpace(in.Priority)
	if in.Priority == "" {
		in.Priority = string(model.PriorityNormal)
	}
	return in
}

// TaskForm holds the choices a task form offers to one user.
type TaskForm struct {
	Categories        []model.Category
	DefaultCategoryID uint
	Priorities        []model.Priority
	MinDueDate        time.Time
}

// TaskCounts are a user's task totals.
type TaskCounts = repository.TaskCounts

// Dashboard is one page of a user's pending tasks.
type Dashboard struct {
	Tasks    []model.Task
	Page     Page
	Priority model.Priority
	Counts   TaskCounts
}

// Archive is one page of a user's completed tasks.
type Archive struct {
	Tasks          []model.Task
	Page           Page
	TotalCompleted int64
}

// SearchResult holds pending tasks matching a query.
type SearchResult struct {
	Query string
	Tasks []model.Task
	Count int
}

// TaskService wraps task-related business logic. Every method takes the
// requesting user's id and only ever touches that user's rows.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	now          Clock
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, now Clock) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, now: now}
}

// Today is the earliest due date a task may be given.
func (s *TaskService) Today() time.Time {
	return model.DateOf(s.now())
}

// PrepareForm makes sure the user has a General category and returns the
// choices for a task form, with General preselected.
func (s *TaskService) PrepareForm(ctx context.Context, userID uint) (*TaskForm, error) {
	general, _, err := s.categoryRepo.GetOrCreate(ctx, userID, model.DefaultCategoryName)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TaskForm{
		Categories:        categories,
		DefaultCategoryID: general.ID,
		Priorities:        model.Priorities,
		MinDueDate:        s.Today(),
	}, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}
	return task, nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID uint, in TaskInput) (*model.Task, error) {
	taskForm, err := s.PrepareForm(ctx, userID)
	if err != nil {
		return nil, err
	}

	task := model.Task{UserID: userID}
	if err := s.bind(ctx, &task, in, taskForm.DefaultCategoryID); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, foreignCategory(err)
	}
	return &task, nil
}

// UpdateTask revalidates every field, due date included: an unchanged due
// date that has since passed is rejected.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uint, in TaskInput) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}
	if _, _, err := s.categoryRepo.GetOrCreate(ctx, userID, model.DefaultCategoryName); err != nil {
		return nil, err
	}

	if err := s.bind(ctx, task, in, task.CategoryID); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, foreignCategory(err)
	}
	return task, nil
}

// CompleteTask marks a task as done. Completing a completed task is a no-op
// that still succeeds.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.taskRepo.MarkCompleted(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task, completed or not.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uint) error {
	return notFound(s.taskRepo.Delete(ctx, userID, taskID))
}

// Dashboard lists pending tasks. An unknown priority is ignored rather than
// rejected.
func (s *TaskService) Dashboard(ctx context.Context, userID uint, priority, page string) (*Dashboard, error) {
	pending := false
	q := repository.TaskQuery{UserID: userID, Completed: &pending}
	if p, err := model.ParsePriority(priority); err == nil {
		q.Priority = p
	}

	tasks, pg, err := s.page(ctx, q, page)
	if err != nil {
		return nil, err
	}
	counts, err := s.taskRepo.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Tasks: tasks, Page: pg, Priority: q.Priority, Counts: counts}, nil
}

// Archive lists completed tasks.
func (s *TaskService) Archive(ctx context.Context, userID uint, page string) (*Archive, error) {
	completed := true
	tasks, pg, err := s.page(ctx, repository.TaskQuery{UserID: userID, Completed: &completed}, page)
	if err != nil {
		return nil, err
	}
	return &Archive{Tasks: tasks, Page: pg, TotalCompleted: pg.Count}, nil
}

// DeleteArchived removes one completed task. Pending tasks are not found here.
func (s *TaskService) DeleteArchived(ctx context.Context, userID, taskID uint) error {
	return notFound(s.taskRepo.DeleteCompleted(ctx, userID, taskID))
}

// DeleteAllArchived removes all of the user's completed tasks.
func (s *TaskService) DeleteAllArchived(ctx context.Context, userID uint) (int64, error) {
	return s.taskRepo.DeleteAllCompleted(ctx, userID)
}

// Search finds pending tasks whose title or description contains query,
// ignoring case. An empty query finds nothing.
func (s *TaskService) Search(ctx context.Context, userID uint, query string) (*SearchResult, error) {
	result := &SearchResult{Query: query, Tasks: []model.Task{}}
	if query == "" {
		return result, nil
	}

	pending := false
	tasks, err := s.taskRepo.List(ctx, repository.TaskQuery{UserID: userID, Completed: &pending, Search: query})
	if err != nil {
		return nil, err
	}
	result.Tasks = tasks
	result.Count = len(tasks)
	return result, nil
}

// CategoryNames maps the user's category ids to names.
func (s *TaskService) CategoryNames(ctx context.Context, userID uint) (map[uint]string, error) {
	categories, err := s.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *TaskService) page(ctx context.Context, q repository.TaskQuery, raw string) ([]model.Task, Page, error) {
	count, err := s.taskRepo.Count(ctx, q)
	if err != nil {
		return nil, Page{}, err
	}
	pg, err := paginate(raw, count)
	if err != nil {
		return nil, Page{}, err
	}
	q.Limit = PageSize
	q.Offset = pg.Offset()
	tasks, err := s.taskRepo.List(ctx, q)
	if err != nil {
		return nil, Page{}, err
	}
	return tasks, pg, nil
}

// bind validates in and copies it onto task. Tag rules run first, then the
// rules that need storage or the clock.
func (s *TaskService) bind(ctx context.Context, task *model.Task, in TaskInput, fallbackCategory uint) error {
	in = in.normalize()
	errs := form.Errors{}
	if err := form.Struct(errs, in); err != nil {
		return err
	}

	var due time.Time
	if !errs.Has("due_date") {
		parsed, err := time.Parse(model.DateLayout, in.DueDate)
		if err != nil {
			return fmt.Errorf("parse due date: %w", err)
		}
		due = parsed
		form.Field(errs, "due_date", due, form.NotBefore(s.Today(), pastDueDateMsg))
	}

	categoryID := in.CategoryID
	if categoryID == 0 {
		categoryID = fallbackCategory
	}
	if categoryID == 0 {
		errs.Add("category", "This field is required.")
	} else if _, err := s.categoryRepo.FindByID(ctx, task.UserID, categoryID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		errs.Add("category", form.InvalidChoiceMsg)
	}

	if err := errs.Err(); err != nil {
		return err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.DueDate = due
	task.Priority = model.Priority(in.Priority)
	task.CategoryID = categoryID
	return nil
}

// foreignCategory reports a category deleted between validation and write
// as a validation error on the category field.
func foreignCategory(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		errs := form.Errors{}
		errs.Add("category", form.InvalidChoiceMsg)
		return errs.Err()
	}
	return err
}
