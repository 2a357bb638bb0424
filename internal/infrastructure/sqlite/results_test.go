package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResults_RecordAndRecent(t *testing.T) {
	ctx := t.Context()
	r := openTestDB(t).Results()
	base := time.UnixMilli(1_760_000_000_000)

	_, err := r.Record(ctx, ResultRecord{
		RequestID: "req-1",
		Endpoint:  "addPrograms.cgi",
		Status:    200,
		OK:        true,
		Summary:   "Added=2",
		Result:    `{"Added":2}`,
		Duration:  120 * time.Millisecond,
		CreatedAt: base,
	})
	require.NoError(t, err)
	id2, err := r.Record(ctx, ResultRecord{
		RequestID: "req-2",
		Endpoint:  "command.cgi",
		Status:    500,
		Error:     "api: command.cgi failed (500)",
		CreatedAt: base.Add(time.Second),
	})
	require.NoError(t, err)

	recs, err := r.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	newest := recs[0]
	require.Equal(t, id2, newest.ID)
	require.Equal(t, "command.cgi", newest.Endpoint)
	require.False(t, newest.OK)
	require.Empty(t, newest.Result)
	require.Equal(t, "api: command.cgi failed (500)", newest.Error)

	oldest := recs[1]
	require.True(t, oldest.OK)
	require.Equal(t, `{"Added":2}`, oldest.Result)
	require.Equal(t, 120*time.Millisecond, oldest.Duration)
	require.True(t, base.Equal(oldest.CreatedAt))
}

func TestResults_RecentLimit(t *testing.T) {
	ctx := t.Context()
	r := openTestDB(t).Results()
	for i := 0; i < 5; i++ {
		_, err := r.Record(ctx, ResultRecord{RequestID: "r", Endpoint: "e", OK: true})
		require.NoError(t, err)
	}

	recs, err := r.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	recs, err = r.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 5, "non-positive limit uses the default")
}

func TestResults_Prune(t *testing.T) {
	ctx := t.Context()
	r := openTestDB(t).Results()
	base := time.UnixMilli(1_760_000_000_000)
	for i := 0; i < 5; i++ {
		_, err := r.Record(ctx, ResultRecord{RequestID: "r", Endpoint: "e", CreatedAt: base.Add(time.Duration(i) * time.Second)})
		require.NoError(t, err)
	}

	n, err := r.Prune(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	recs, err := r.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.True(t, base.Add(4*time.Second).Equal(recs[0].CreatedAt))
}
