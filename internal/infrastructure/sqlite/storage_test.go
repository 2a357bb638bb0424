package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStorage_SetGetDelete(t *testing.T) {
	ctx := t.Context()
	s := openTestDB(t).Storage()

	_, ok, err := s.Get(ctx, "RSBP")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "RSBP", "one"))
	require.NoError(t, s.Set(ctx, "RSBP", "two"))

	v, ok, err := s.Get(ctx, "RSBP")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", v)

	require.NoError(t, s.Delete(ctx, "RSBP"))
	require.NoError(t, s.Delete(ctx, "RSBP"))
	_, ok, err = s.Get(ctx, "RSBP")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStorage_UpdatedAt(t *testing.T) {
	ctx := t.Context()
	db := openTestDB(t)
	s := db.Storage()
	s.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	require.NoError(t, s.Set(ctx, "k", "v"))

	var updated int64
	require.NoError(t, db.conn.QueryRow(`SELECT updated_at FROM local_storage WHERE key = 'k'`).Scan(&updated))
	require.Equal(t, int64(1_700_000_000), updated)
}

func TestStorage_Keys(t *testing.T) {
	ctx := t.Context()
	s := openTestDB(t).Storage()

	require.NoError(t, s.Set(ctx, "b", "2"))
	require.NoError(t, s.Set(ctx, "a", "1"))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, keys)
}
