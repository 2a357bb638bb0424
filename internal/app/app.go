// Package app contains the root application model.
package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"recworklist/internal/keys"
	"recworklist/internal/log"
	"recworklist/internal/pubsub"
	"recworklist/internal/ui/logview"
	"recworklist/internal/ui/worklist"
	"recworklist/internal/watcher"
	wl "recworklist/internal/worklist"
)

// Options configure the root model.
type Options struct {
	Services worklist.Services
	Statuses *wl.Statuses

	// WatchPath is the local database watched for highlight keyword
	// changes made by other processes. Empty disables watching.
	WatchPath string

	// Debug enables the log view (ctrl+x).
	Debug bool
}

// Model is the root application state.
type Model struct {
	worklist worklist.Model

	width  int
	height int

	debugMode   bool
	logs        logview.Model
	logListener *log.LogListener

	// storage watcher, feeds highlight reloads
	watcherHandle   *watcher.Watcher
	watcherListener *pubsub.Listener[watcher.Change]
}

// New creates the root model. The watcher starts when auto refresh is on
// and a watch path is given.
func New(opts Options) Model {
	statuses := opts.Statuses
	if statuses == nil {
		statuses = wl.NewStatuses()
	}
	m := Model{
		worklist:  worklist.New(opts.Services, statuses),
		debugMode: opts.Debug,
		logs:      logview.New(),
	}

	cfg := opts.Services.Config
	if cfg != nil && cfg.AutoRefresh && opts.WatchPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(opts.WatchPath))
		if err == nil {
			err = w.Start()
			if err == nil {
				m.watcherHandle = w
				m.watcherListener = pubsub.Listen(w.Broker())
			} else {
				_ = w.Stop()
			}
		}
		if err != nil {
			// The worklist works without auto refresh.
			log.Warn(log.CatWatcher, "Watcher disabled", "path", opts.WatchPath, "error", err)
		}
	}

	if opts.Debug {
		m.logListener = log.NewListener()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.worklist.Init(), m.watcherListener.Next(), m.logListener.Next())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logs = m.logs.SetSize(msg.Width, msg.Height)

	case log.LogEvent:
		m.logs = m.logs.Append(msg.Payload)
		return m, m.logListener.Next()

	case pubsub.Event[watcher.Change]:
		log.Debug(log.CatWatcher, "Storage changed, reloading highlight", "files", msg.Payload.Files)
		var cmd tea.Cmd
		m.worklist, cmd = m.worklist.Update(worklist.ReloadHighlightMsg{})
		return m, tea.Batch(cmd, m.watcherListener.Next())

	case logview.CloseMsg:
		m.logs = m.logs.Hide()
		return m, nil

	case tea.MouseMsg:
		if m.logs.Visible() {
			return m, nil
		}

	case tea.KeyMsg:
		if m.debugMode && key.Matches(msg, keys.Logs) {
			m.logs = m.logs.Toggle()
			return m, nil
		}
		if m.logs.Visible() {
			var cmd tea.Cmd
			m.logs, cmd = m.logs.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.worklist, cmd = m.worklist.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.debugMode && m.logs.Visible() {
		return m.logs.View()
	}
	return m.worklist.View()
}

// Worklist returns the worklist view.
func (m Model) Worklist() worklist.Model { return m.worklist }

// Watching reports whether the storage watcher runs.
func (m Model) Watching() bool { return m.watcherHandle != nil }

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.logListener.Stop()
	m.watcherListener.Stop()
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
