package domain

import "time"

// UserStatus enumerates account states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// User is the authenticated identity record. PasswordHash is empty for
// accounts created through a social provider.
type User struct {
	ID            string
	Name          string
	Email         string
	EmailVerified bool
	AvatarURL     *string
	PasswordHash  string
	Status        UserStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPassword reports whether the user can sign in with email/password.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}
