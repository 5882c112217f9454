package model

import (
	"fmt"
	"time"
)

// User represents a registered account. Users are immutable after creation
// and are never deleted.
//
// The JSON field names match the records already stored under `user:<id>`
// keys, so existing data keeps parsing. The password is stored in plain text;
// that is the preserved behavior of the system this replaces, kept as a
// documented limitation.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	AvatarURL string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// AvatarURL derives the account avatar deterministically from the username.
// The URL shape is fixed: stored users already carry it.
func AvatarURL(username string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", username)
}

// UserProfile is the response view of a User. The stored record carries the
// plaintext password for compatibility with existing data; API responses do
// not.
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile strips the credential from a user record.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterRequest carries the sign-up form fields.
type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
