package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/domain"
	"storefront-service/internal/linker"
	"storefront-service/internal/store"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// RegisterInput is the data needed to open an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService registers and authenticates users.
type AuthService struct {
	store  *store.Store
	hasher PasswordHasher
	log    *logrus.Entry
}

// NewAuthService creates a new AuthService.
func NewAuthService(s *store.Store, hasher PasswordHasher, logger *logrus.Logger) *AuthService {
	return &AuthService{store: s, hasher: hasher, log: logger.WithField("component", "auth")}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func byEmail(email string) func(domain.User) bool {
	return func(u domain.User) bool { return normalizeEmail(u.Email) == email }
}

// Register creates a user account with the user role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var created domain.User
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		users, err := store.Load[domain.User](ctx, tx, store.Users)
		if err != nil {
			return err
		}
		if _, exists := linker.Find(users, byEmail(email)); exists {
			return ErrDuplicateEmail
		}
		created = domain.User{
			ID:           store.NextID(users),
			Name:         strings.TrimSpace(in.Name),
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleUser,
		}
		return store.Save(ctx, tx, store.Users, append(users, created))
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", created.ID).Info("user registered")
	return &created, nil
}

// Authenticate returns the user owning email if password matches.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	users, err := store.Load[domain.User](ctx, s.store, store.Users)
	if err != nil {
		return nil, err
	}
	user, ok := linker.Find(users, byEmail(normalizeEmail(email)))
	if !ok || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
