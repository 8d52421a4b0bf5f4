package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"task-manager/internal/form"
	"task-manager/internal/model"
	"task-manager/internal/repository"
)

const categoryNameTakenMsg = "A category with this name already exists."

// CategoryInput is the submitted category form.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=40"`
}

// CategoryList is the category overview of one user.
type CategoryList struct {
	Categories []model.CategoryStats
	Total      int
}

// CategoryDetail is a category with its pending tasks.
type CategoryDetail struct {
	Category model.Category
	Tasks    []model.Task
}

// CategoryService provides category use cases scoped to one user.
type CategoryService struct {
	repo     *repository.CategoryRepository
	taskRepo *repository.TaskRepository
}

func NewCategoryService(repo *repository.CategoryRepository, taskRepo *repository.TaskRepository) *CategoryService {
	return &CategoryService{repo: repo, taskRepo: taskRepo}
}

func (s *CategoryService) List(ctx context.Context, userID uint) (*CategoryList, error) {
	stats, err := s.repo.ListWithStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CategoryList{Categories: stats, Total: len(stats)}, nil
}

func (s *CategoryService) Detail(ctx context.Context, userID, id uint) (*CategoryDetail, error) {
	category, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	pending := false
	tasks, err := s.taskRepo.List(ctx, repository.TaskQuery{UserID: userID, CategoryID: id, Completed: &pending})
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{Category: *category, Tasks: tasks}, nil
}

func (s *CategoryService) Create(ctx context.Context, userID uint, in CategoryInput) (*model.Category, error) {
	name, err := s.validate(ctx, userID, in, 0)
	if err != nil {
		return nil, err
	}

	category := &model.Category{UserID: userID, Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, duplicateName(err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id uint, in CategoryInput) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}

	name, err := s.validate(ctx, userID, in, category.ID)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, duplicateName(err)
	}
	return category, nil
}

// Delete removes the category together with all of its tasks and reports how
// many tasks were removed.
func (s *CategoryService) Delete(ctx context.Context, userID, id uint) (int64, error) {
	removed, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return 0, notFound(err)
	}
	return removed, nil
}

func (s *CategoryService) validate(ctx context.Context, userID uint, in CategoryInput, excludeID uint) (string, error) {
	errs := form.Errors{}
	in.Name = strings.TrimSpace(in.Name)
	if err := form.Struct(errs, in); err != nil {
		return "", err
	}

	if !errs.Has("name") {
		taken, err := s.repo.NameTaken(ctx, userID, in.Name, excludeID)
		if err != nil {
			return "", err
		}
		if taken {
			errs.Add("name", categoryNameTakenMsg)
		}
	}
	return in.Name, errs.Err()
}

// duplicateName turns a unique index violation that slipped past validation
// into the same error validation would have produced.
func duplicateName(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		errs := form.Errors{}
		errs.Add("name", categoryNameTakenMsg)
		return errs.Err()
	}
	return err
}
