package model

import (
	"time"

	"gorm.io/gorm"
)

// DateLayout is the wire and form format of due dates.
const DateLayout = "2006-01-02"

// Task represents a single to-do item. It always belongs to one user and to
// one of that user's categories.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	CategoryID  uint   `gorm:"index;not null"`
	Title       string `gorm:"size:40;not null"`
	Description string
	// Folded copies of Title and Description for search.
	TitleKey       string    `gorm:"not null"`
	DescriptionKey string    `gorm:"not null"`
	DueDate        time.Time `gorm:"type:date;not null"`
	Priority       Priority  `gorm:"size:10;not null"`
	IsCompleted    bool      `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t *Task) BeforeSave(*gorm.DB) error {
	t.TitleKey = Fold(t.Title)
	t.DescriptionKey = Fold(t.Description)
	return nil
}

// IsOverdue reports whether an incomplete task is due before today.
func (t Task) IsOverdue(today time.Time) bool {
	if t.IsCompleted {
		return false
	}
	return t.DueDate.Before(DateOf(today))
}

// DateOf truncates ts to midnight UTC of its calendar day in ts's location.
func DateOf(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
