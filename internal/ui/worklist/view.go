package worklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"recworklist/internal/api"
	"recworklist/internal/keys"
	"recworklist/internal/page"
	"recworklist/internal/ui/styles"
	wl "recworklist/internal/worklist"
)

const (
	detailIndent = 6
	stateWidth   = 10
	updatedWidth = 16
)

func keywordStyle(s string) string { return styles.KeywordStyle.Render(s) }

func cornerStyle(s string) string { return styles.CornerStyle.Render(s) }

// columns are the cell widths of a row line for a given inner width.
type columns struct {
	series, episode, title, state, updated int
}

func layout(inner int) columns {
	// cursor(2) check(3) and a space after each cell
	rest := inner - 2 - 4
	c := columns{state: stateWidth, updated: updatedWidth}
	if rest < 60 {
		c.updated = 0
		c.state = 0
	}
	rest -= c.state + c.updated
	if c.state > 0 {
		rest -= 2
	}
	c.series = max(rest/4, 6)
	c.episode = max(rest/5, 4)
	c.title = max(rest-c.series-c.episode-2, 4)
	return c
}

// View renders the worklist.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	top := m.renderTop()
	footer := m.renderFooter()
	listHeight := max(m.height-lipgloss.Height(top)-lipgloss.Height(footer), 3)

	title := fmt.Sprintf("Programs %d", m.rowCount())
	if m.ctrl != nil && m.ctrl.SelectedCount() > 0 {
		title = fmt.Sprintf("Programs %d · %d selected", m.rowCount(), m.ctrl.SelectedCount())
	}
	if m.loading {
		title += " · loading"
	}
	list := styles.Panel(m.list.View(), title, m.width, listHeight, !m.formFocus)

	view := lipgloss.JoinVertical(lipgloss.Left, top, list, footer)
	view = m.toaster.Overlay(view, m.width, m.height)
	return zone.Scan(view)
}

func (m Model) rowCount() int {
	if m.ctrl == nil {
		return 0
	}
	return m.ctrl.Len()
}

func (m Model) renderTop() string {
	header := styles.BadgeStyle.Render(m.titles.title)
	if m.page != nil && m.page.Provider != "" {
		header += styles.MutedStyle.Render("  " + m.page.Provider)
	}

	tabs := make([]string, len(panelNames))
	for i, name := range panelNames {
		style := styles.TabStyle
		if Panel(i) == m.panel {
			style = styles.ActiveTabStyle
		}
		tabs[i] = zone.Mark(makeTabZoneID(i), style.Render(name))
	}
	menu := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return lipgloss.JoinVertical(lipgloss.Left, header, menu, m.renderPanel())
}

func (m Model) renderPanel() string {
	switch m.panel {
	case PanelAdd:
		return m.renderAddPanel()
	case PanelSort:
		buttons := make([]string, len(page.SortOrders))
		for i, s := range page.SortOrders {
			style := styles.PrimaryButtonStyle
			if s == m.sortBy {
				style = styles.PrimaryButtonFocusedStyle
			}
			buttons[i] = zone.Mark(makeButtonZoneID(s), style.Render(s)) + " "
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
	default:
		buttons := make([]string, len(api.Commands))
		for i, c := range api.Commands {
			style := styles.PrimaryButtonStyle
			switch {
			case m.commandGate.Busy():
				style = styles.DisabledButtonStyle
			case c == api.CommandRemove:
				style = styles.DangerButtonStyle
			}
			buttons[i] = zone.Mark(makeButtonZoneID(string(c)), style.Render(string(c))) + " "
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
	}
}

func (m Model) renderAddPanel() string {
	input := m.form.View()
	button := styles.PrimaryButtonStyle
	label := "Submit"
	if m.addGate.Busy() {
		button = styles.DisabledButtonStyle
		label = "Sending…"
		input = styles.MutedStyle.Render(input)
	} else if m.formFocus {
		button = styles.PrimaryButtonFocusedStyle
	}
	submit := zone.Mark(makeButtonZoneID("submit"), button.Render(label))
	return lipgloss.JoinVertical(lipgloss.Left, zone.Mark(zoneAddInput, input), submit)
}

func (m Model) renderFooter() string {
	var h string
	switch {
	case m.formFocus:
		h = m.help.ShortHelpView(keys.Form.ShortHelp())
	case m.showHelp:
		h = m.help.FullHelpView(keys.Worklist.FullHelp())
	default:
		h = m.help.ShortHelpView(keys.Worklist.ShortHelp())
	}
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left, styles.StatusBarStyle.Foreground(styles.StatusErrorColor).Render(m.err.Error()), h)
	}
	return h
}

// refreshList rebuilds the row list content and keeps the cursor row in
// view.
func (m Model) refreshList() Model {
	if m.width == 0 || m.height == 0 {
		return m
	}
	inner := max(m.width-2, 1)
	height := max(m.height-lipgloss.Height(m.renderTop())-lipgloss.Height(m.renderFooter())-2, 1)
	m.list.Width = inner
	m.list.Height = height

	if m.ctrl == nil || m.ctrl.Len() == 0 {
		m.rowStarts = nil
		empty := "No programs"
		if m.loading {
			empty = "Loading…"
		}
		m.list.SetContent(styles.MutedStyle.Render(empty))
		return m
	}

	cols := layout(inner)
	var lines []string
	m.rowStarts = make([]int, 0, m.ctrl.Len())
	for i, row := range m.ctrl.Rows() {
		m.rowStarts = append(m.rowStarts, len(lines))
		lines = append(lines, m.renderRow(row, i == m.cursor, cols))
		lines = append(lines, m.renderDetail(row, inner)...)
	}
	m.list.SetContent(strings.Join(lines, "\n"))

	start := m.rowStarts[min(m.cursor, len(m.rowStarts)-1)]
	end := len(lines) - 1
	if m.cursor+1 < len(m.rowStarts) {
		end = m.rowStarts[m.cursor+1] - 1
	}
	switch {
	case start < m.list.YOffset:
		m.list.SetYOffset(start)
	case end >= m.list.YOffset+height:
		m.list.SetYOffset(min(start, end-height+1))
	}
	return m
}

func (m Model) renderRow(row *wl.Row, selected bool, cols columns) string {
	p := m.rows.get(row.ID)
	rowStyle := styles.RowStyle(row.Status.Name())

	cursor := "  "
	if selected {
		cursor = styles.SelectionIndicatorStyle.Render("> ")
	}
	check := "[ ]"
	if p.Checked {
		check = "[x]"
	}

	series := styles.FitPlain(row.Info.SeriesTitle, cols.series)
	if row.Info.SeriesTitle != "" {
		series = styles.SeriesStyle.Render(series)
	}
	episode := styles.EpisodeStyle.Render(styles.FitPlain(row.Info.Episode, cols.episode))

	title := m.matcher.Apply(row.Info.Title, keywordStyle, cornerStyle)
	title = styles.PadRight(styles.Truncate(title, cols.title), cols.title)

	var b strings.Builder
	b.WriteString(cursor)
	b.WriteString(zone.Mark(makeCellZoneID(TargetCheckbox, row.ID), rowStyle.Render(check)))
	b.WriteString(" ")
	b.WriteString(zone.Mark(makeCellZoneID(TargetSeries, row.ID), series))
	b.WriteString(" ")
	b.WriteString(zone.Mark(makeCellZoneID(TargetLink, row.ID), episode))
	b.WriteString(" ")

	rest := title
	if cols.state > 0 {
		rest += " " + rowStyle.Render(styles.FitPlain(row.Info.State, cols.state)) +
			" " + styles.MutedStyle.Render(styles.FitPlain(row.Info.Updated, cols.updated))
	}
	b.WriteString(zone.Mark(makeCellZoneID(TargetRow, row.ID), rest))
	return b.String()
}

func (m Model) renderDetail(row *wl.Row, inner int) []string {
	if !m.rows.get(row.ID).DetailVisible || row.Info.Detail == "" {
		return nil
	}
	if !m.services.Config.UI.ShowDetailInline {
		if cur, ok := m.cursorRow(); !ok || cur.ID != row.ID {
			return nil
		}
	}
	pad := strings.Repeat(" ", detailIndent)
	wrapped := wordwrap.String(row.Info.Detail, max(inner-detailIndent, 10))
	var lines []string
	for _, line := range strings.Split(wrapped, "\n") {
		line = m.matcher.Apply(line, keywordStyle, cornerStyle)
		lines = append(lines, styles.Truncate(pad+styles.DetailStyle.Render(line), inner))
	}
	return lines
}
