package auth

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepo interface {
	Create(ctx context.Context, sess Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	// Revoke marks the session revoked. Revoking twice is not an error.
	Revoke(ctx context.Context, sessionID string) error
}
