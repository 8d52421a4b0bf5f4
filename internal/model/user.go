package model

import (
	"time"

	"gorm.io/gorm"
)

// User is an account that owns categories and tasks.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:150;not null;index"`
	UsernameKey  string `gorm:"size:600;uniqueIndex;not null"`
	FirstName    string `gorm:"size:30"`
	LastName     string `gorm:"size:30"`
	Email        string `gorm:"size:254"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeSave(*gorm.DB) error {
	u.UsernameKey = Fold(u.Username)
	return nil
}
