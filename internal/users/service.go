package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalidInput wraps validation failures.
var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	Repo     Repo
	Validate *validator.Validate
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Validate: validator.New()}
}

// Register creates a user and its profile. passwordHash may be empty for
// users that only sign in through OAuth.
func (s *Service) Register(ctx context.Context, email, passwordHash, fullName string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	user := User{ID: uuid.NewString(), Email: email, PasswordHash: passwordHash}
	profile := Profile{ID: user.ID, Email: email, FullName: strings.TrimSpace(fullName)}
	if err := s.Repo.Create(ctx, user, profile); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

// EnsureOAuthUser returns the user for email, creating a password-less one on
// first sign-in.
func (s *Service) EnsureOAuthUser(ctx context.Context, email, fullName string) (User, error) {
	user, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	user, err = s.Register(ctx, email, "", fullName)
	if errors.Is(err, ErrEmailTaken) {
		return s.Repo.GetByEmail(ctx, email)
	}
	return user, err
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	return s.Repo.GetProfile(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (Profile, error) {
	update.FullName = strings.TrimSpace(update.FullName)
	update.Phone = strings.TrimSpace(update.Phone)
	if err := s.Validate.Struct(update); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.Repo.UpdateProfile(ctx, userID, update)
}
