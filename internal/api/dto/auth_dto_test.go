package dto_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fullstack-starter/internal/api/dto"
	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

func requireValidationError(t *testing.T, err error) *apperr.ValidationError {
	t.Helper()
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	return verr
}

func TestRegisterRequest_Valid(t *testing.T) {
	req := dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}
	assert.NoError(t, req.Validate())
}

func TestRegisterRequest_AllFieldsMissing(t *testing.T) {
	req := dto.RegisterRequest{}
	verr := requireValidationError(t, req.Validate())

	require.Len(t, verr.Details, 3)
	paths := []string{verr.Details[0].Path, verr.Details[1].Path, verr.Details[2].Path}
	assert.Equal(t, []string{"name", "email", "password"}, paths)
	for _, d := range verr.Details {
		assert.NotEmpty(t, d.Path)
		assert.NotEmpty(t, d.Message)
	}
}

func TestRegisterRequest_BadEmail(t *testing.T) {
	req := dto.RegisterRequest{Name: "Ada", Email: "not-an-email", Password: "correct-horse"}
	verr := requireValidationError(t, req.Validate())

	require.Len(t, verr.Details, 1)
	assert.Equal(t, "email", verr.Details[0].Path)
}

func TestRegisterRequest_ShortPassword(t *testing.T) {
	req := dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "short"}
	verr := requireValidationError(t, req.Validate())

	require.Len(t, verr.Details, 1)
	assert.Equal(t, "password", verr.Details[0].Path)
	assert.Equal(t, "Password must be at least 8 characters", verr.Details[0].Message)
}

func TestLoginRequest_Valid(t *testing.T) {
	req := dto.LoginRequest{Email: "ada@example.com", Password: "whatever"}
	assert.NoError(t, req.Validate())
}

func TestLoginRequest_MissingBoth(t *testing.T) {
	req := dto.LoginRequest{}
	verr := requireValidationError(t, req.Validate())

	require.Len(t, verr.Details, 2)
	assert.Equal(t, "email", verr.Details[0].Path)
	assert.Equal(t, "password", verr.Details[1].Path)
}

func TestLoginRequest_DoesNotEnforcePasswordLength(t *testing.T) {
	// Length rules apply at registration; login only requires presence so
	// legacy credentials keep working.
	req := dto.LoginRequest{Email: "ada@example.com", Password: "old"}
	assert.NoError(t, req.Validate())
}
