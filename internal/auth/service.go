package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"freshhire-backend/internal/session"
	sharedauth "freshhire-backend/internal/shared/auth"
	"freshhire-backend/internal/shared/telemetry"
	"freshhire-backend/internal/users"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not signed in")
)

// Service implements sign-up, sign-in and sign-out on top of the user store,
// server-side sessions and signed access tokens.
type Service struct {
	Users    *users.Service
	Sessions SessionRepo
	Signer   *sharedauth.Signer
	Validate *validator.Validate
	Now      func() time.Time
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

func NewService(usersSvc *users.Service, sessions SessionRepo, signer *sharedauth.Signer) *Service {
	return &Service{
		Users:    usersSvc,
		Sessions: sessions,
		Signer:   signer,
		Validate: validator.New(),
		Now:      time.Now,
	}
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Result, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	if err := s.Validate.Struct(in); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.Users.Register(ctx, in.Email, string(hash), in.FullName)
	if err != nil {
		return Result{}, err
	}
	telemetry.Info("auth.signup", map[string]any{"user_id": user.ID})
	return s.Issue(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, in SignInInput) (Result, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.Validate.Struct(in); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	user, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, err
	}
	if user.PasswordHash == "" {
		return Result{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return Result{}, ErrInvalidCredentials
	}
	return s.Issue(ctx, user)
}

// Issue opens a session for user and signs a token bound to it.
func (s *Service) Issue(ctx context.Context, user users.User) (Result, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := s.Signer.Sign(user.ID, user.Email, sessionID)
	if err != nil {
		return Result{}, fmt.Errorf("sign token: %w", err)
	}
	if err := s.Sessions.Create(ctx, Session{
		ID:        sessionID,
		UserID:    user.ID,
		CreatedAt: s.now(),
		ExpiresAt: expiresAt,
	}); err != nil {
		return Result{}, fmt.Errorf("create session: %w", err)
	}
	return Result{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        AuthUser{ID: user.ID, Email: user.Email},
	}, nil
}

// SignOut revokes the caller's session. Signing out while signed out is a no-op.
func (s *Service) SignOut(ctx context.Context) error {
	identity, ok := session.FromContext(ctx)
	if !ok || identity.SessionID == "" {
		return nil
	}
	err := s.Sessions.Revoke(ctx, identity.SessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}
	telemetry.Info("auth.signout", map[string]any{"user_id": identity.ID})
	return nil
}

// CurrentUser implements session.Source.
func (s *Service) CurrentUser(ctx context.Context) (session.Identity, bool) {
	return session.FromContext(ctx)
}

// Authenticate verifies token and checks its session is still active.
func (s *Service) Authenticate(ctx context.Context, token string) (session.Identity, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return session.Identity{}, ErrUnauthenticated
	}
	if claims.SessionID() == "" {
		return session.Identity{}, ErrUnauthenticated
	}
	sess, err := s.Sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return session.Identity{}, ErrUnauthenticated
		}
		return session.Identity{}, err
	}
	if sess.UserID != claims.UserID() || !sess.Active(s.now()) {
		return session.Identity{}, ErrUnauthenticated
	}
	return session.Identity{
		ID:        claims.UserID(),
		Email:     claims.Email,
		SessionID: sess.ID,
	}, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

var _ session.Source = (*Service)(nil)
