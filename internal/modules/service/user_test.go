package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.deps, bcrypt.MinCost)

	alice, err := users.Create(f.ctx, CreateUserInput{Login: "alice", Password: "pw", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Login)

	t.Run("duplicate login", func(t *testing.T) {
		_, err := users.Create(f.ctx, CreateUserInput{Login: "alice", Password: "other", Email: "a2@example.com"})
		assert.ErrorIs(t, err, ErrLoginAlreadyExists)
	})

	t.Run("blank and oversized passwords", func(t *testing.T) {
		_, err := users.Create(f.ctx, CreateUserInput{Login: "bob", Password: " ", Email: "bob@example.com"})
		assert.ErrorIs(t, err, ErrBlankField)

		long := make([]byte, 73)
		for i := range long {
			long[i] = 'x'
		}
		_, err = users.Create(f.ctx, CreateUserInput{Login: "bob", Password: string(long), Email: "bob@example.com"})
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("authenticate", func(t *testing.T) {
		u, err := users.Authenticate(f.ctx, "alice", "pw")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, u.ID)

		_, err = users.Authenticate(f.ctx, "alice", "nope")
		assert.ErrorIs(t, err, ErrWrongLoginOrPassword)
		_, err = users.Authenticate(f.ctx, "nobody", "pw")
		assert.ErrorIs(t, err, ErrWrongLoginOrPassword)
	})

	t.Run("only self is visible", func(t *testing.T) {
		got, err := users.Get(f.ctx, alice.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", got.Email)

		_, err = users.Get(f.ctx, f.owner.ID, alice.ID)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("update self", func(t *testing.T) {
		out, err := users.Update(f.ctx, UpdateUserInput{CallerID: alice.ID, UserID: alice.ID, Password: "pw2", Email: "new@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", out.Email)

		_, err = users.Authenticate(f.ctx, "alice", "pw2")
		assert.NoError(t, err)

		_, err = users.Update(f.ctx, UpdateUserInput{CallerID: uuid.New(), UserID: alice.ID, Password: "x", Email: "x@example.com"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
