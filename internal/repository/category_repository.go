package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// CategoryRepository manages task categories. Every method is scoped to one user.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetOrCreate returns the user's category with this name, ignoring case,
// creating it when missing. A concurrent insert of the same name is resolved
// by re-reading.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, userID uint, name string) (*model.Category, bool, error) {
	var category model.Category
	db := r.db.WithContext(ctx)
	key := model.Fold(name)
	err := db.Where("user_id = ? AND name_key = ?", userID, key).First(&category).Error
	switch {
	case err == nil:
		return &category, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = model.Category{UserID: userID, Name: name}
		if err := db.Create(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if err := db.Where("user_id = ? AND name_key = ?", userID, key).First(&category).Error; err != nil {
					return nil, false, fmt.Errorf("find category: %w", err)
				}
				return &category, false, nil
			}
			return nil, false, fmt.Errorf("create category: %w", err)
		}
		return &category, true, nil
	default:
		return nil, false, fmt.Errorf("find category: %w", err)
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID uint) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

type categoryCount struct {
	CategoryID  uint
	IsCompleted bool
	N           int64
}

// ListWithStats returns the user's categories with their task counts.
func (r *CategoryRepository) ListWithStats(ctx context.Context, userID uint) ([]model.CategoryStats, error) {
	categories, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var counts []categoryCount
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("category_id, is_completed, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("category_id, is_completed").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count tasks per category: %w", err)
	}

	byID := make(map[uint]*model.CategoryStats, len(categories))
	stats := make([]model.CategoryStats, len(categories))
	for i, c := range categories {
		stats[i] = model.CategoryStats{Category: c}
		byID[c.ID] = &stats[i]
	}
	for _, c := range counts {
		s, ok := byID[c.CategoryID]
		if !ok {
			continue
		}
		s.TotalTasks += c.N
		if c.IsCompleted {
			s.CompletedTasks += c.N
		} else {
			s.PendingTasks += c.N
		}
	}
	return stats, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, userID, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&category).Error; err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

// NameTaken reports whether the user already has a category whose name
// matches under Unicode case folding. excludeID skips the category being
// edited.
func (r *CategoryRepository) NameTaken(ctx context.Context, userID uint, name string, excludeID uint) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("user_id = ? AND name_key = ?", userID, model.Fold(name))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return n > 0, nil
}

func (r *CategoryRepository) Count(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// Delete removes the category and its tasks in one transaction and returns
// how many tasks went with it.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id uint) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.Where("user_id = ? AND id = ?", userID, id).First(&category).Error; err != nil {
			return fmt.Errorf("find category: %w", err)
		}
		res := tx.Where("category_id = ?", category.ID).Delete(&model.Task{})
		if res.Error != nil {
			return fmt.Errorf("delete category tasks: %w", res.Error)
		}
		removed = res.RowsAffected
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
