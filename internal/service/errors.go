package service

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to
	// another user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned for a bad username/password pair.
	ErrUnauthorized = errors.New("invalid username or password")
)

// Clock returns the current time. Services read "today" from it.
type Clock func() time.Time

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
