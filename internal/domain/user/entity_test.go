//go:build unit

package user_test

import (
	"testing"
	"time"

	"stayflow/internal/domain/user"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmp.AllowUnexported(user.User{}, user.Email{}),
}

func TestNewUser(t *testing.T) {
	email, err := user.NewEmail("guest@example.com")
	require.NoError(t, err)

	u := user.NewUser(email, "hashed_password", user.RoleGuest)
	require.NotNil(t, u)

	assert.NotEqual(t, uuid.Nil, u.ID())
	assert.Equal(t, "guest@example.com", u.Email().Value())
	assert.Equal(t, user.RoleGuest, u.Role())
	assert.True(t, u.IsActive())
	assert.Nil(t, u.LastLogin())
}

func TestReconstructUser(t *testing.T) {
	email, err := user.NewEmail("guest@example.com")
	require.NoError(t, err)

	id := uuid.New()
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lastLogin := createdAt.Add(time.Hour)

	u := user.ReconstructUser(id, email, "hashed", user.RoleAdmin, &lastLogin, true, createdAt, createdAt)
	again := user.ReconstructUser(id, email, "hashed", user.RoleAdmin, &lastLogin, true, createdAt, createdAt)

	if diff := cmp.Diff(u, again, cmpOpts...); diff != "" {
		t.Errorf("User mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, id, u.ID())
	assert.Equal(t, &lastLogin, u.LastLogin())
}

func TestNewEmail(t *testing.T) {
	cases := []struct {
		name  string
		input string
		errIs error
	}{
		{name: "valid email", input: "valid@example.com"},
		{name: "surrounding whitespace trimmed", input: "  valid@example.com  "},
		{name: "empty", input: "", errIs: user.ErrInvalidEmail},
		{name: "missing at sign", input: "invalidemail.com", errIs: user.ErrInvalidEmail},
		{name: "missing domain", input: "invalid@", errIs: user.ErrInvalidEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := user.NewEmail(tc.input)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewRole(t *testing.T) {
	cases := []struct {
		name  string
		input string
		errIs error
	}{
		{name: "guest", input: "guest"},
		{name: "admin", input: "admin"},
		{name: "unknown role", input: "manager", errIs: user.ErrInvalidRole},
		{name: "empty", input: "", errIs: user.ErrInvalidRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			role, err := user.NewRole(tc.input)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.input, role.String())
		})
	}
}

func TestNewCredentials(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		creds, err := user.NewCredentials("guest@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "guest@example.com", creds.Email().Value())
		assert.Equal(t, "password123", creds.Password().Value())
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := user.NewCredentials("guest@example.com", "short")
		assert.ErrorIs(t, err, user.ErrPasswordTooWeak)
	})

	t.Run("bad email rejected", func(t *testing.T) {
		_, err := user.NewCredentials("not-an-email", "password123")
		assert.ErrorIs(t, err, user.ErrInvalidEmail)
	})
}
