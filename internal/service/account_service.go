package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-manager/internal/form"
	"task-manager/internal/model"
	"task-manager/internal/repository"
)

const (
	bcryptMaxBytes    = 72
	usernameTakenMsg  = "A user with that username already exists."
	passwordMatchMsg  = "The two password fields didn't match."
	usernameFormatMsg = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

// RegisterInput is the submitted sign-up form.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"required,max=30"`
	LastName  string `json:"last_name" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password1 string `json:"password1" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

// AccountService registers and authenticates users.
type AccountService struct {
	users       *repository.UserRepository
	minPassword int
	hashCost    int
}

// NewAccountService builds the service. minPassword is the shortest password
// accepted at registration; 0 accepts any non-empty password.
func NewAccountService(users *repository.UserRepository, minPassword int) *AccountService {
	return &AccountService{users: users, minPassword: minPassword, hashCost: bcrypt.DefaultCost}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)

	errs := form.Errors{}
	if err := form.Struct(errs, in); err != nil {
		return nil, err
	}
	if !errs.Has("username") && form.Field(errs, "username", in.Username, validUsername) {
		taken, err := s.users.UsernameTaken(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("username", usernameTakenMsg)
		}
	}
	if !errs.Has("password1") && form.Var(errs, "password1", in.Password1, fmt.Sprintf("min=%d", s.minPassword)) {
		form.Field(errs, "password1", in.Password1, maxBytes(bcryptMaxBytes))
	}
	if !errs.Has("password1") && !errs.Has("password2") && in.Password1 != in.Password2 {
		errs.Add("password2", passwordMatchMsg)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	user := model.User{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			errs.Add("username", usernameTakenMsg)
			return nil, errs.Err()
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords both yield ErrUnauthorized.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// User loads the account behind a session.
func (s *AccountService) User(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func validUsername(s string) string {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r) {
			continue
		}
		return usernameFormatMsg
	}
	return ""
}

func maxBytes(n int) form.Rule[string] {
	return func(s string) string {
		if len(s) > n {
			return fmt.Sprintf("Ensure this value has at most %d bytes.", n)
		}
		return ""
	}
}
