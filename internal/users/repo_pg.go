package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"freshhire-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const uniqueViolation = "23505"

func (r *PGRepo) Create(ctx context.Context, user User, profile Profile) error {
	return db.WithTx(ctx, r.DB, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, now())`,
			user.ID, user.Email, nullableString(user.PasswordHash),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrEmailTaken
			}
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO profiles (id, email, full_name, phone, created_at, updated_at) VALUES ($1, $2, $3, $4, now(), now())`,
			profile.ID, profile.Email, nullableString(profile.FullName), nullableString(profile.Phone),
		)
		return err
	})
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getUser(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *PGRepo) getUser(ctx context.Context, query string, arg string) (User, error) {
	var (
		user User
		hash sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &hash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.PasswordHash = hash.String
	return user, nil
}

func (r *PGRepo) GetProfile(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT id, email, full_name, phone, created_at, updated_at
FROM profiles
WHERE id = $1`
	return scanProfile(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (Profile, error) {
	const query = `
UPDATE profiles
SET full_name = $2, phone = $3, updated_at = now()
WHERE id = $1
RETURNING id, email, full_name, phone, created_at, updated_at`
	return scanProfile(r.DB.QueryRowContext(ctx, query, userID, nullableString(update.FullName), nullableString(update.Phone)))
}

func scanProfile(row *sql.Row) (Profile, error) {
	var (
		p                      Profile
		email, fullName, phone sql.NullString
	)
	if err := row.Scan(&p.ID, &email, &fullName, &phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.Email = email.String
	p.FullName = fullName.String
	p.Phone = phone.String
	return p, nil
}

func nullableString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
