package blobstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	boltStore, err := OpenBolt(filepath.Join(dir, "bolt", "catalog.db"))
	require.NoError(t, err)
	sqliteStore, err := OpenSQLite(filepath.Join(dir, "sqlite", "catalog.sqlite"))
	require.NoError(t, err)
	fileStore, err := OpenFile(filepath.Join(dir, "files"))
	require.NoError(t, err)

	stores := map[string]Store{
		"bolt":   boltStore,
		"sqlite": sqliteStore,
		"file":   fileStore,
		"memory": NewMemory(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStores_GetMissingKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "products")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStores_SetThenGetOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "products", []byte(`[{"id":"1"}]`)))
			require.NoError(t, s.Set(ctx, "products", []byte(`[]`)))

			got, err := s.Get(ctx, "products")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			_, err = s.Get(ctx, "products.corrupt")
			assert.ErrorIs(t, err, ErrNotFound, "keys must not bleed into each other")
		})
	}
}

func TestStores_RejectInvalidKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
				assert.Error(t, s.Set(ctx, key, []byte("x")), "key %q", key)
			}
		})
	}
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	s, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "products", []byte("payload")))
	require.NoError(t, s.Close())

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "products", []byte("abc")))

	got, err := m.Get(ctx, "products")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := m.Get(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemory_FailSet(t *testing.T) {
	m := NewMemory()
	m.FailSet = errors.New("disk full")
	assert.EqualError(t, m.Set(context.Background(), "products", nil), "disk full")
}

func TestOpen_SelectsDriver(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		want    any
		wantErr bool
	}{
		{"default is bolt", Config{Path: filepath.Join(dir, "a.db")}, &Bolt{}, false},
		{"sqlite", Config{Driver: "SQLite", Path: filepath.Join(dir, "b.sqlite")}, &SQLite{}, false},
		{"file", Config{Driver: DriverFile, Path: filepath.Join(dir, "files")}, &File{}, false},
		{"memory", Config{Driver: DriverMemory}, &Memory{}, false},
		{"unknown", Config{Driver: "redis"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tt.want, s)
		})
	}
}
