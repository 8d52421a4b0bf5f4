package model

import (
	"time"

	"gorm.io/gorm"
)

// DefaultCategoryName is the category every user gets on their first task.
const DefaultCategoryName = "General"

// Category groups tasks by area (work, personal, shopping, etc.).
// A user cannot have two categories whose names differ only in case.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_user_category_key,priority:1"`
	Name      string `gorm:"size:40;not null"`
	NameKey   string `gorm:"size:160;not null;uniqueIndex:idx_user_category_key,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []Task `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// CategoryStats holds derived task counts for one category.
type CategoryStats struct {
	Category
	TotalTasks     int64
	PendingTasks   int64
	CompletedTasks int64
}

func (c *Category) BeforeSave(*gorm.DB) error {
	c.NameKey = Fold(c.Name)
	return nil
}
