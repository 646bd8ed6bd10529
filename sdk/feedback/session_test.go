package feedback

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&Session{}).Expired(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Second)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now}).Expired(now))
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Error(t, store.Save(ctx, &Session{}))

	in := &Session{Token: "tok", UserID: "fac-1", Role: RoleFaculty}
	require.NoError(t, store.Save(ctx, in))
	in.Token = "mutated"

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemorySessionStore_DropsExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	require.NoError(t, store.Save(ctx, &Session{Token: "tok", ExpiresAt: time.Now().Add(-time.Minute)}))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileSessionStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := NewFileSessionStore(path, time.Hour, WithClock(clock))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, &Session{
		Token:     "tok",
		UserID:    "stu-1",
		Role:      RoleStudent,
		ExpiresAt: now.Add(2 * time.Hour),
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", got.UserID)
	assert.True(t, got.ExpiresAt.Equal(now.Add(2*time.Hour)))

	t.Run("store ttl elapses before session expiry", func(t *testing.T) {
		later := NewFileSessionStore(path, time.Hour, WithClock(func() time.Time { return now.Add(time.Hour) }))

		_, err := later.Load(ctx)
		assert.ErrorIs(t, err, ErrNoSession)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestFileSessionStore_SessionExpiry(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.yaml")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := NewFileSessionStore(path, 0, WithClock(func() time.Time { return now }))
	require.NoError(t, store.Save(ctx, &Session{Token: "tok", ExpiresAt: now.Add(-time.Second)}))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileSessionStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("::: not yaml"), 0o600))

	store := NewFileSessionStore(path, time.Hour)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Clear(ctx))
}
