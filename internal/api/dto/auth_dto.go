package dto

import (
	"regexp"
	"strings"
	"time"

	"github.com/spec-kit/fullstack-starter/internal/domain"
	"github.com/spec-kit/fullstack-starter/internal/session"
	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the request shape, reporting every violated field.
func (r *RegisterRequest) Validate() error {
	verr := &apperr.ValidationError{}
	validateName(verr, r.Name)
	validateEmail(verr, r.Email)
	validatePassword(verr, r.Password)
	if verr.Empty() {
		return nil
	}
	return verr
}

// LoginRequest payload for email/password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the request shape, reporting every violated field.
func (r *LoginRequest) Validate() error {
	verr := &apperr.ValidationError{}
	validateEmail(verr, r.Email)
	if r.Password == "" {
		verr.Add("password", "Password is required")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// UserResponse is the public shape of an identity.
type UserResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	EmailVerified bool    `json:"email_verified"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user onto its public shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		AvatarURL:     user.AvatarURL,
		CreatedAt:     user.CreatedAt,
	}
}

// SessionResponse is the public shape of a session. The token never leaves
// the cookie.
type SessionResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// NewSessionResponse maps a session onto its public shape.
func NewSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		CreatedAt:   s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
		RefreshedAt: s.RefreshedAt,
	}
}

func validateName(verr *apperr.ValidationError, name string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		verr.Add("name", "Name is required")
		return
	}
	if len(trimmed) > 100 {
		verr.Add("name", "Name must be at most 100 characters")
	}
}

func validateEmail(verr *apperr.ValidationError, email string) {
	if email == "" {
		verr.Add("email", "Email is required")
		return
	}
	if !emailPattern.MatchString(email) {
		verr.Add("email", "Email must be a valid address")
	}
}

func validatePassword(verr *apperr.ValidationError, password string) {
	if password == "" {
		verr.Add("password", "Password is required")
		return
	}
	if len(password) < minPasswordLength {
		verr.Add("password", "Password must be at least 8 characters")
	}
}
