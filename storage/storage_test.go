package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the behaviour every backend must share
func exercise(t *testing.T, s Store) {
	t.Helper()
	key := fmt.Sprintf("bookstall.test.%s.%d", t.Name(), time.Now().UnixNano())

	_, err := s.Get(key)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(key, []byte(`{"a":1}`)))
	got, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, s.Set(key, []byte(`{}`)))
	got, err = s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got), "Set must overwrite")
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set("k", buf))
	buf[0] = 'x'

	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "bookstall.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	exercise(t, s)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookstall.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("cart", []byte("snapshot")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get("cart")
	require.NoError(t, err)
	assert.Equal(t, "snapshot", string(got))
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := NewRedis(addr, 0)
	require.NoError(t, err)
	defer s.Close()

	exercise(t, s)
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(Options{Backend: BackendSQLite, DBPath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = Open(Options{Backend: "etcd"})
	assert.Error(t, err)
}
