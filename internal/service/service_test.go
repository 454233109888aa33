package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/domain"
	"storefront-service/internal/store"
)

var (
	alice = domain.Principal{UserID: 7, Role: domain.RoleUser}
	bob   = domain.Principal{UserID: 8, Role: domain.RoleUser}
	admin = domain.Principal{UserID: 1, Role: domain.RoleAdmin}
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fixture struct {
	ctx     context.Context
	backend *store.MemoryBackend
	store   *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := store.NewMemoryBackend()
	return &fixture{
		ctx:     context.Background(),
		backend: backend,
		store:   store.New(backend, quietLogger()),
	}
}

func seed[T any](t *testing.T, f *fixture, c store.Collection, records ...T) {
	t.Helper()
	require.NoError(t, store.Save(f.ctx, f.store, c, records))
}

func load[T any](t *testing.T, f *fixture, c store.Collection) []T {
	t.Helper()
	records, err := store.Load[T](f.ctx, f.store, c)
	require.NoError(t, err)
	return records
}

// snapshot captures the raw bytes of every slot.
func snapshot(t *testing.T, f *fixture) map[store.Collection]string {
	t.Helper()
	out := make(map[store.Collection]string, len(store.Collections))
	for _, c := range store.Collections {
		data, err := f.backend.Read(f.ctx, c)
		if err != nil {
			out[c] = "<missing>"
			continue
		}
		out[c] = string(data)
	}
	return out
}

// plainHasher stands in for bcrypt in service tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Verify(password, hash string) bool {
	return strings.TrimPrefix(hash, "plain:") == password && strings.HasPrefix(hash, "plain:")
}
