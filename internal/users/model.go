package users

import "time"

// User is a credential record. PasswordHash is empty for OAuth-only users.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the public per-user record created at sign-up.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileUpdate is the editable subset of a profile.
type ProfileUpdate struct {
	FullName string `json:"fullName" validate:"max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}
