package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/domain"
	"storefront-service/internal/store"
)

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.store, plainHasher{}, quietLogger())

	user, err := svc.Register(f.ctx, RegisterInput{Name: " Alice ", Email: "Alice@Example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "plain:secret", user.PasswordHash)

	_, err = svc.Register(f.ctx, RegisterInput{Name: "Impostor", Email: "ALICE@example.com ", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Len(t, load[domain.User](t, f, store.Users), 1)
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.store, plainHasher{}, quietLogger())
	_, err := svc.Register(f.ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)

	user, err := svc.Authenticate(f.ctx, "ALICE@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = svc.Authenticate(f.ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(f.ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
