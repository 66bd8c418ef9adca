package kvstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomarket/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "jobs")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, s.Set(ctx, "jobs", []byte(`[1]`)))
			v, err := s.Get(ctx, "jobs")
			require.NoError(t, err)
			assert.Equal(t, `[1]`, string(v))

			require.NoError(t, s.Set(ctx, "jobs", []byte(`[2]`)))
			v, err = s.Get(ctx, "jobs")
			require.NoError(t, err)
			assert.Equal(t, `[2]`, string(v))
		})
	}
}

func TestStore_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Set(ctx, "../escape", []byte(`{}`))
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(Options{Driver: "sheets"})
	assert.Error(t, err)
}

type counters map[string]int

func newCountersDoc(s Store) *Document[counters] {
	return NewDocument(s, "counters", func() counters { return counters{} })
}

func TestDocument_RoundTripAndEnvelope(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := newCountersDoc(s)

	v, err := doc.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, doc.Update(ctx, func(c *counters) error {
		(*c)["a"] = 3
		return nil
	}))

	raw, err := s.Get(ctx, "counters")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"data":{"a":3}}`, string(raw))

	v, err = doc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, counters{"a": 3}, v)
}

func TestDocument_UpdateErrorDoesNotSave(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := newCountersDoc(s)

	boom := errors.New("boom")
	err := doc.Update(ctx, func(c *counters) error {
		(*c)["a"] = 1
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Get(ctx, "counters")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestDocument_LegacyUnversionedBlob(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "counters", []byte(`{"legacy":7}`)))

	v, err := newCountersDoc(s).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, counters{"legacy": 7}, v)
}

func TestDocument_CorruptBlobDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "counters", []byte(`{not json`)))

	v, err := newCountersDoc(s).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Set(ctx, "counters", []byte(`{"version":1,"data":[1,2]}`)))
	v, err = newCountersDoc(s).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestDocument_NewerVersionIsAnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "counters", []byte(`{"version":9,"data":{}}`)))

	_, err := newCountersDoc(s).Load(ctx)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestFileStore_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Set(context.Background(), "verified_map", []byte(`{}`)))
	_, err = os.Stat(filepath.Join(dir, "verified_map.json"))
	assert.NoError(t, err)
}
