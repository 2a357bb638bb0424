// Package logview is the in-app log pane shown in debug mode.
package logview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recworklist/internal/log"
	"recworklist/internal/ui/styles"
)

// MaxEntries bounds the retained log lines.
const MaxEntries = 500

// CloseMsg is sent when the pane closes itself.
type CloseMsg struct{}

// Model is the log pane state.
type Model struct {
	visible  bool
	minLevel log.Level
	entries  []string
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden log pane.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Append adds one formatted entry, dropping the oldest past MaxEntries.
func (m Model) Append(entry string) Model {
	entry = strings.TrimSuffix(entry, "\n")
	if len(m.entries) >= MaxEntries {
		m.entries = append(m.entries[:0:0], m.entries[len(m.entries)-MaxEntries+1:]...)
	}
	m.entries = append(m.entries, entry)
	if m.visible {
		m.refresh(true)
	}
	return m
}

// Entries returns the retained entries.
func (m Model) Entries() []string { return m.entries }

// Update handles keys while visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "c":
		m.entries = nil
	case "d":
		m.minLevel = log.LevelDebug
	case "i":
		m.minLevel = log.LevelInfo
	case "w":
		m.minLevel = log.LevelWarn
	case "e":
		m.minLevel = log.LevelError
	case "j", "down":
		m.viewport.ScrollDown(1)
		return m, nil
	case "k", "up":
		m.viewport.ScrollUp(1)
		return m, nil
	case "g":
		m.viewport.GotoTop()
		return m, nil
	case "G":
		m.viewport.GotoBottom()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+x", "esc":
		m.visible = false
		return m, func() tea.Msg { return CloseMsg{} }
	default:
		return m, nil
	}
	m.refresh(true)
	return m, nil
}

// View renders the pane.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.filterHint())
	return styles.Panel(content, "Logs", m.width, m.height, true)
}

// Visible reports whether the pane is shown.
func (m Model) Visible() bool { return m.visible }

// MinLevel returns the level filter.
func (m Model) MinLevel() log.Level { return m.minLevel }

// Toggle shows or hides the pane.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh(true)
	}
	return m
}

// Hide hides the pane.
func (m Model) Hide() Model {
	m.visible = false
	return m
}

// SetSize updates the pane size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.refresh(false)
	return m
}

func (m *Model) refresh(bottom bool) {
	if m.width == 0 || m.height == 0 {
		return
	}
	inner := max(m.width-2, 10)
	// borders and the hint line
	m.viewport = viewport.New(inner, max(m.height-3, 1))
	m.viewport.SetContent(m.content(inner))
	if bottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) content(width int) string {
	var lines []string
	for _, entry := range m.entries {
		level, ok := levelOf(entry)
		if ok && level < m.minLevel {
			continue
		}
		lines = append(lines, colorize(styles.Truncate(entry, width), level, ok))
	}
	if len(lines) == 0 {
		return styles.MutedStyle.Italic(true).Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

func levelOf(entry string) (log.Level, bool) {
	switch {
	case strings.Contains(entry, "[ERROR]"):
		return log.LevelError, true
	case strings.Contains(entry, "[WARN]"):
		return log.LevelWarn, true
	case strings.Contains(entry, "[INFO]"):
		return log.LevelInfo, true
	case strings.Contains(entry, "[DEBUG]"):
		return log.LevelDebug, true
	}
	return 0, false
}

func colorize(entry string, level log.Level, known bool) string {
	color := styles.TextPrimaryColor
	if known {
		switch level {
		case log.LevelError:
			color = styles.StatusErrorColor
		case log.LevelWarn:
			color = styles.StatusWarningColor
		case log.LevelInfo:
			color = styles.ToastBorderInfoColor
		case log.LevelDebug:
			color = styles.TextMutedColor
		}
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		label string
		level log.Level
	}{
		{"[d] Debug", log.LevelDebug},
		{"[i] Info", log.LevelInfo},
		{"[w] Warn", log.LevelWarn},
		{"[e] Error", log.LevelError},
	} {
		style := hint
		if f.level == m.minLevel {
			style = active
		}
		parts = append(parts, style.Render(f.label))
	}
	return strings.Join(parts, "  ")
}
