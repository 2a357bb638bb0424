package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recworklist/internal/api"
	"recworklist/internal/config"
	"recworklist/internal/flags"
	"recworklist/internal/log"
	"recworklist/internal/page"
	"recworklist/internal/pubsub"
	"recworklist/internal/testutil"
	"recworklist/internal/ui/worklist"
	"recworklist/internal/watcher"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

// stubAPI serves the standard page and accepts every request.
type stubAPI struct{}

func (stubAPI) FetchPage(context.Context, string) (*page.Page, error) {
	b := testutil.NewPage("WwwRecorder").WithProvider("radiko").WithStandardRows()
	return &page.Page{Title: "WwwRecorder", Provider: "radiko", SortBy: page.SortByStatus, Rows: b.Sources()}, nil
}

func (stubAPI) AddPrograms(context.Context, string, []string) (api.Response, error) {
	return api.Response{Endpoint: api.EndpointAddPrograms, Status: 200, Result: api.Result{"Result": "OK"}}, nil
}

func (stubAPI) Command(context.Context, api.CommandRequest) (api.Response, error) {
	return api.Response{Endpoint: api.EndpointCommand, Status: 200, Result: api.Result{"Result": "OK"}}, nil
}

func (stubAPI) EditProgramURL(provider, id string) string {
	return "http://recorder.test/editProgram.cgi?Provider=" + provider + "&ProgramId=" + id
}

func testOptions(t *testing.T) Options {
	t.Helper()
	cfg := config.Defaults()
	cfg.BaseURL = "http://recorder.test/cgi-bin/WwwRecorder"
	cfg.AutoRefresh = false
	return Options{
		Services: worklist.Services{
			API:    stubAPI{},
			Config: &cfg,
			Flags:  flags.New(cfg.Flags),
		},
	}
}

func createTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	m := New(opts)
	t.Cleanup(func() { _ = m.Close() })
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m := createTestModel(t, testOptions(t))

	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)
	assert.NotEmpty(t, m.View(), "size reaches the worklist")
}

func TestApp_NoWatcherWithoutPath(t *testing.T) {
	opts := testOptions(t)
	opts.Services.Config.AutoRefresh = true

	m := createTestModel(t, opts)

	assert.False(t, m.Watching())
}

func TestApp_WatcherReloadsHighlight(t *testing.T) {
	db := testutil.NewTestDB(t)
	opts := testOptions(t)
	opts.Services.Config.AutoRefresh = true
	opts.Services.Highlights = db.Storage()
	opts.WatchPath = db.Path()

	m := createTestModel(t, opts)
	require.True(t, m.Watching())

	_, cmd := m.Update(pubsub.Event[watcher.Change]{
		Type:    pubsub.ChangedEvent,
		Payload: watcher.Change{Files: []string{filepath.Base(db.Path())}},
	})
	assert.NotNil(t, cmd, "a storage change reloads highlight and re-listens")
}

func TestApp_WatcherOffWhenAutoRefreshDisabled(t *testing.T) {
	db := testutil.NewTestDB(t)
	opts := testOptions(t)
	opts.WatchPath = db.Path()

	m := createTestModel(t, opts)

	assert.False(t, m.Watching())
}

func TestApp_LogViewToggleInDebug(t *testing.T) {
	log.InitWriter(io.Discard)
	t.Cleanup(log.Reset)

	opts := testOptions(t)
	opts.Debug = true
	m := createTestModel(t, opts)
	require.NotNil(t, m.logListener)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = next.(Model)
	assert.True(t, m.logs.Visible())

	next, _ = m.Update(log.LogEvent{Type: pubsub.LoggedEvent, Payload: "2026-10-01T00:00:00 [INFO] [api] hello\n"})
	m = next.(Model)
	assert.Contains(t, m.View(), "hello")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = next.(Model)
	assert.False(t, m.logs.Visible())
}

func TestApp_LogViewSwallowsKeys(t *testing.T) {
	log.InitWriter(io.Discard)
	t.Cleanup(log.Reset)

	opts := testOptions(t)
	opts.Debug = true
	m := createTestModel(t, opts)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)

	assert.Nil(t, cmd, "q does not reach the worklist while logs are shown")
	assert.True(t, m.logs.Visible())
}

func TestApp_LogViewOffWithoutDebug(t *testing.T) {
	m := createTestModel(t, testOptions(t))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = next.(Model)

	assert.False(t, m.logs.Visible())
	assert.Nil(t, m.logListener)
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := createTestModel(t, testOptions(t))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_EndToEnd(t *testing.T) {
	tm := teatest.NewTestModel(t, New(testOptions(t)), teatest.WithInitialTermSize(100, 30))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("Night Radio #1"))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(20*time.Millisecond))

	// Sync the series of the first row from the keyboard.
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("(3)WwwRecorder"))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(20*time.Millisecond))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.True(t, ok)
	wl := final.Worklist()
	assert.Equal(t, "(3)WwwRecorder", wl.Title())
	assert.Equal(t, 3, wl.Controller().SelectedCount())
}
