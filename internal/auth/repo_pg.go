package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type PGSessionRepo struct {
	DB *sql.DB
}

func (r *PGSessionRepo) Create(ctx context.Context, sess Session) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, now(), $3)`,
		sess.ID, sess.UserID, sess.ExpiresAt,
	)
	return err
}

func (r *PGSessionRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return Session{}, ErrSessionNotFound
	}
	var (
		sess    Session
		revoked sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at, revoked_at FROM sessions WHERE id = $1`,
		sessionID,
	).Scan(&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt, &revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	if revoked.Valid {
		t := revoked.Time
		sess.RevokedAt = &t
	}
	return sess, nil
}

func (r *PGSessionRepo) Revoke(ctx context.Context, sessionID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = COALESCE(revoked_at, now()) WHERE id = $1`,
		sessionID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

var _ SessionRepo = (*PGSessionRepo)(nil)
