package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"recworklist/internal/api"
	"recworklist/internal/config"
	"recworklist/internal/flags"
	"recworklist/internal/history"
	"recworklist/internal/infrastructure/sqlite"
	"recworklist/internal/page"
	"recworklist/internal/testutil"
)

type fakeBackend struct {
	resp     api.Response
	err      error
	provider string
	uris     []string
	req      api.CommandRequest
	keyword  [3]string
}

func (f *fakeBackend) AddPrograms(_ context.Context, provider string, uris []string) (api.Response, error) {
	f.provider, f.uris = provider, uris
	return f.resp, f.err
}

func (f *fakeBackend) Command(_ context.Context, req api.CommandRequest) (api.Response, error) {
	f.req = req
	return f.resp, f.err
}

func (f *fakeBackend) EditKeywords(_ context.Context, cmd api.KeywordCommand, key, not string) (api.Response, error) {
	f.keyword = [3]string{string(cmd), key, not}
	return f.resp, f.err
}

func ok(endpoint string) api.Response {
	return api.Response{RequestID: "req-1", Endpoint: endpoint, Status: 200, Result: api.Result{"Result": "OK"}}
}

func TestRootCommand_Subcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"add", "command", "keywords", "highlight", "history"} {
		require.Contains(t, names, want)
	}
}

func TestSetDefaults_Unmarshal(t *testing.T) {
	v := viper.New()
	setDefaults(v, config.Defaults())

	var got config.Config
	require.NoError(t, v.Unmarshal(&got))

	require.Equal(t, "WwwRecorder.cgi", got.Page)
	require.Equal(t, page.SortByStatus, got.SortBy)
	require.Equal(t, 400*time.Millisecond, got.UI.DoubleClick)
	require.Equal(t, 30*time.Second, got.API.Timeout)
	require.True(t, got.Flags[flags.FlagSeriesMouse])
}

func TestSetDefaults_ConfigFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: http://recorder.test/cgi-bin/WwwRecorder\nui:\n  double_click: 250ms\nflags:\n  series-mouse: false\n"), 0o600))

	v := viper.New()
	setDefaults(v, config.Defaults())
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var got config.Config
	require.NoError(t, v.Unmarshal(&got))

	require.Equal(t, "http://recorder.test/cgi-bin/WwwRecorder", got.BaseURL)
	require.Equal(t, 250*time.Millisecond, got.UI.DoubleClick)
	require.True(t, got.UI.Mouse, "unset keys keep defaults")
	require.False(t, got.Flags[flags.FlagSeriesMouse])
	require.NoError(t, config.Validate(got))
}

func TestCollectURIs(t *testing.T) {
	uris, err := collectURIs([]string{"radiko://a", " "}, "-", strings.NewReader("radiko://b\r\n\nradiko://c\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"radiko://a", "radiko://b", "radiko://c"}, uris)

	_, err = collectURIs(nil, "", nil)
	require.ErrorIs(t, err, api.ErrNoPrograms)

	_, err = collectURIs(nil, filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	for in, want := range map[string]api.Command{
		"Retry":  api.CommandRetry,
		"abort":  api.CommandAbort,
		"REMOVE": api.CommandRemove,
	} {
		got, err := parseCommand(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	_, err := parseCommand("Delete")
	require.Error(t, err)
}

func TestAddPrograms_RecordsHistory(t *testing.T) {
	db := testutil.NewTestDB(t)
	rec := history.New(db.Results(), true)
	backend := &fakeBackend{resp: ok(api.EndpointAddPrograms)}
	var out bytes.Buffer

	err := addPrograms(t.Context(), backend, rec, "radiko", []string{"radiko://a"}, &out)

	require.NoError(t, err)
	require.Equal(t, "radiko", backend.provider)
	require.Equal(t, "Added 1 program(s): Result=OK\n", out.String())

	recs, err := db.Results().Recent(t.Context(), 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, api.EndpointAddPrograms, recs[0].Endpoint)
}

func TestAddPrograms_FailureRecordedAndReturned(t *testing.T) {
	db := testutil.NewTestDB(t)
	rec := history.New(db.Results(), true)
	backend := &fakeBackend{resp: api.Response{Endpoint: api.EndpointAddPrograms}, err: errors.New("refused")}

	err := addPrograms(t.Context(), backend, rec, "radiko", []string{"radiko://a"}, &bytes.Buffer{})

	require.ErrorContains(t, err, "refused")
	recs, err := db.Results().Recent(t.Context(), 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.False(t, recs[0].OK)
	require.Equal(t, "refused", recs[0].Error)
}

func TestRunCommand(t *testing.T) {
	backend := &fakeBackend{resp: ok(api.EndpointCommand)}
	var out bytes.Buffer
	req := api.CommandRequest{Command: api.CommandAbort, ProgramIDs: []string{"A", "B"}, Provider: "radiko", SortBy: page.SortByTitle}

	require.NoError(t, runCommand(t.Context(), backend, nil, req, &out))

	require.Equal(t, req, backend.req)
	require.Equal(t, "Abort 2 program(s): Result=OK\n", out.String())
}

func TestRunKeywordEdit(t *testing.T) {
	backend := &fakeBackend{resp: ok(api.EndpointEditKeywords)}
	var out bytes.Buffer

	require.NoError(t, runKeywordEdit(t.Context(), backend, nil, api.KeywordAdd, "声優", "再放送", &out))

	require.Equal(t, [3]string{"Add", "声優", "再放送"}, backend.keyword)
	require.Contains(t, out.String(), `Add "声優"`)
}

func TestRenderKeywords(t *testing.T) {
	var out bytes.Buffer
	renderKeywords(&out, []page.Keyword{{Key: "声優", Not: "再放送"}, {Key: "Jazz"}})

	require.Contains(t, out.String(), "声優")
	require.Contains(t, out.String(), "再放送")
	require.Contains(t, out.String(), "Jazz")

	out.Reset()
	renderKeywords(&out, nil)
	require.Equal(t, "No keywords\n", out.String())
}

func TestRenderHistory(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	recs := []sqlite.ResultRecord{
		{ID: 2, Endpoint: api.EndpointCommand, Status: 500, Error: "boom", Duration: 1500 * time.Millisecond, CreatedAt: now.Add(-2 * time.Minute)},
		{ID: 1, Endpoint: api.EndpointAddPrograms, Status: 200, OK: true, Summary: "Result=OK", Duration: 42 * time.Millisecond, CreatedAt: now.Add(-3 * time.Hour)},
	}
	var out bytes.Buffer

	renderHistory(&out, recs, now)

	s := out.String()
	require.Contains(t, s, "2 minutes ago")
	require.Contains(t, s, "3 hours ago")
	require.Contains(t, s, "error: boom")
	require.Contains(t, s, "Result=OK")
	require.Contains(t, s, "1.5s")
	require.Less(t, strings.Index(s, "command.cgi"), strings.Index(s, "addPrograms.cgi"), "keeps the given order")
}

func TestRenderHistory_Empty(t *testing.T) {
	var out bytes.Buffer
	renderHistory(&out, nil, time.Now())
	require.Equal(t, "No results recorded\n", out.String())
}

func TestHighlightShowAndSet(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := db.Storage()

	var out bytes.Buffer
	require.NoError(t, showHighlight(t.Context(), store, &out))
	require.Equal(t, "幼き日の歌\n声優\n", out.String(), "defaults until set")

	out.Reset()
	require.NoError(t, setHighlight(t.Context(), store, "Jazz\n\nJazz\nAnime", &out))
	require.Equal(t, "Saved 2 highlight keyword(s)\n", out.String())

	out.Reset()
	require.NoError(t, showHighlight(t.Context(), store, &out))
	require.Equal(t, "Anime\nJazz\n", out.String())
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kw.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o600))

	got, err := readSource(path, nil)
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", got)

	got, err = readSource("-", strings.NewReader("stdin"))
	require.NoError(t, err)
	require.Equal(t, "stdin", got)
}
