package worklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"recworklist/internal/api"
	"recworklist/internal/config"
	"recworklist/internal/flags"
	"recworklist/internal/highlight"
	"recworklist/internal/keys"
	"recworklist/internal/log"
	"recworklist/internal/page"
	"recworklist/internal/ui/toaster"
	wl "recworklist/internal/worklist"
)

// Panel is one of the menu panels. Exactly one is shown.
type Panel int

const (
	PanelCommand Panel = iota
	PanelAdd
	PanelSort
)

var panelNames = []string{"Command", "Add", "Sort"}

func (p Panel) String() string {
	if int(p) < len(panelNames) {
		return panelNames[p]
	}
	return "Panel(" + fmt.Sprint(int(p)) + ")"
}

type requestKind int

const (
	requestAdd requestKind = iota
	requestCommand
)

type pageLoadedMsg struct {
	page *page.Page
	err  error
}

type requestDoneMsg struct {
	kind    requestKind
	command api.Command
	resp    api.Response
	err     error
}

type highlightLoadedMsg struct {
	cfg highlight.Config
	err error
}

type deferredActivationMsg struct {
	token int
	rowID string
}

type copiedMsg struct {
	url string
	err error
}

type sortSavedMsg struct {
	sortBy string
	err    error
}

// ReloadHighlightMsg asks the view to re-read the highlight keywords.
type ReloadHighlightMsg struct{}

// titleState receives the badged title from the row controller.
type titleState struct {
	title string
	count int
	dirty bool
}

// Model is the worklist view.
type Model struct {
	services Services
	statuses *wl.Statuses

	ctrl   *wl.Controller
	rows   *rowView
	titles *titleState
	page   *page.Page
	sortBy string
	cursor int

	panel     Panel
	form      textarea.Model
	formFocus bool

	addGate     *api.Gate
	commandGate *api.Gate
	gestures    *Gestures

	list      viewport.Model
	rowStarts []int
	help      help.Model
	showHelp  bool
	toaster   toaster.Model
	matcher   *highlight.Matcher

	width   int
	height  int
	loading bool
	err     error
}

// New creates the view. statuses is the shared status set.
func New(services Services, statuses *wl.Statuses) Model {
	if services.Config == nil {
		cfg := config.Defaults()
		services.Config = &cfg
	}
	if services.Clipboard == nil {
		services.Clipboard = SystemClipboard{}
	}

	form := textarea.New()
	form.Placeholder = "Program URIs, one per line"
	form.ShowLineNumbers = false
	form.SetHeight(3)
	form.CharLimit = 0

	sortBy := services.Config.SortBy
	if sortBy == "" {
		sortBy = page.SortByStatus
	}

	return Model{
		services:    services,
		statuses:    statuses,
		rows:        newRowView(),
		titles:      &titleState{title: services.Config.UI.Title},
		sortBy:      sortBy,
		form:        form,
		addGate:     api.NewGate("add-programs"),
		commandGate: api.NewGate("command"),
		gestures:    NewGestures(services.Config.UI.DoubleClick),
		list:        viewport.New(0, 0),
		help:        help.New(),
		toaster:     toaster.New(),
		matcher:     highlight.NewMatcher(highlight.Config{}),
		loading:     true,
	}
}

// Init loads the page and the highlight keywords.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPage(false), m.loadHighlight())
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	m.form.SetWidth(max(width-4, 10))
	return m.refreshList()
}

// Title returns the badged title.
func (m Model) Title() string { return m.titles.title }

// Controller returns the row controller of the current page, nil before the
// first load.
func (m Model) Controller() *wl.Controller { return m.ctrl }

// Panel returns the visible menu panel.
func (m Model) Panel() Panel { return m.panel }

// SortBy returns the current sort order.
func (m Model) SortBy() string { return m.sortBy }

// FormFocused reports whether the add form has focus.
func (m Model) FormFocused() bool { return m.formFocus }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	m, cmd := m.update(msg)
	return m.refreshList(), cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case pageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			log.ErrorErr(log.CatPage, "Loading page failed", msg.err)
			return m.toast("Loading worklist failed: "+msg.err.Error(), toaster.StyleError)
		}
		m.err = nil
		m.setPage(msg.page)
		return m, m.flushTitle()

	case highlightLoadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatConfig, "Loading highlight keywords failed", msg.err)
			return m.toast("Highlight keywords unreadable", toaster.StyleWarn)
		}
		m.matcher = highlight.NewMatcher(msg.cfg)
		log.Debug(log.CatUI, "Highlight keywords loaded", "count", len(msg.cfg.List()))
		return m, nil

	case ReloadHighlightMsg:
		return m, m.loadHighlight()

	case requestDoneMsg:
		return m.handleRequestDone(msg)

	case deferredActivationMsg:
		if m.ctrl == nil || !m.gestures.Fire(msg.token) {
			return m, nil
		}
		m.ctrl.Advance(msg.rowID)
		return m, m.flushTitle()

	case copiedMsg:
		if msg.err != nil {
			return m.toast("Copy failed: "+msg.err.Error(), toaster.StyleError)
		}
		return m.toast("Copied "+msg.url, toaster.StyleInfo)

	case sortSavedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatConfig, "Saving sort order failed", msg.err, "sortBy", msg.sortBy)
			return m.toast("Sort order not saved", toaster.StyleWarn)
		}
		return m, nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case tea.MouseMsg:
		if !m.services.Config.UI.Mouse {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.formFocus {
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.formFocus {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setPage(p *page.Page) {
	m.page = p
	m.rows.reset()

	label := p.Title
	if label == "" {
		label = m.services.Config.UI.Title
	}
	m.ctrl = wl.NewController(m.statuses, p.Rows, label, m.rows)
	// deferred activations belong to the rows they were made on
	m.gestures = NewGestures(m.gestures.Window())

	titles := m.titles
	titles.title = m.ctrl.Title()
	titles.count = m.ctrl.SelectedCount()
	titles.dirty = true
	m.ctrl.OnTitle(func(title string, count int) {
		titles.title = title
		titles.count = count
		titles.dirty = true
	})

	if p.SortBy != "" && page.ValidSortBy(p.SortBy) {
		m.sortBy = p.SortBy
	}
	m.cursor = min(m.cursor, max(m.ctrl.Len()-1, 0))
}

// flushTitle returns the window title command when the title changed.
func (m Model) flushTitle() tea.Cmd {
	if !m.titles.dirty {
		return nil
	}
	m.titles.dirty = false
	return tea.SetWindowTitle(m.titles.title)
}

func (m Model) toast(message string, style toaster.Style) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(message, style, toaster.DefaultDuration)
	return m, cmd
}

func (m Model) cursorRow() (*wl.Row, bool) {
	if m.ctrl == nil {
		return nil, false
	}
	return m.ctrl.Store().At(m.cursor)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := keys.Worklist
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, k.Up):
		m.cursor = max(m.cursor-1, 0)
		return m, nil
	case key.Matches(msg, k.Down):
		if m.ctrl != nil {
			m.cursor = min(m.cursor+1, max(m.ctrl.Len()-1, 0))
		}
		return m, nil
	case key.Matches(msg, k.NextPanel):
		m.panel = (m.panel + 1) % Panel(len(panelNames))
		return m, nil
	case key.Matches(msg, k.Retry):
		return m.submitCommand(api.CommandRetry)
	case key.Matches(msg, k.Abort):
		return m.submitCommand(api.CommandAbort)
	case key.Matches(msg, k.Remove):
		return m.submitCommand(api.CommandRemove)
	case key.Matches(msg, k.AddForm):
		m.panel = PanelAdd
		return m.focusForm()
	case key.Matches(msg, k.SortByStatus):
		return m.setSort(page.SortByStatus)
	case key.Matches(msg, k.SortByTitle):
		return m.setSort(page.SortByTitle)
	case key.Matches(msg, k.SortByUpdate):
		return m.setSort(page.SortByUpdate)
	case key.Matches(msg, k.Reload):
		m.loading = true
		return m, m.loadPage(true)
	}

	row, ok := m.cursorRow()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, k.Advance):
		return m.activate(TargetRow, row.ID)
	case key.Matches(msg, k.Check):
		return m.activate(TargetCheckbox, row.ID)
	case key.Matches(msg, k.Series):
		return m.syncSeries(row)
	case key.Matches(msg, k.CopyEdit):
		return m, m.copyEditURL(row.ID)
	}
	return m, nil
}

// activate routes one activation through the gesture dispatcher into the
// row controller.
func (m Model) activate(target Target, rowID string) (Model, tea.Cmd) {
	row, ok := m.ctrl.Row(rowID)
	if !ok {
		return m, nil
	}
	inSeries := row.InSeries() && m.services.enabled(flags.FlagSeriesMouse)
	action, token := m.gestures.Activate(target, rowID, inSeries, m.services.now())
	log.Debug(log.CatUI, "Activation", "row", rowID, "action", action)

	switch action {
	case ActionAdvance:
		m.ctrl.Advance(rowID)
	case ActionToggle:
		m.ctrl.ToggleChecked(rowID)
	case ActionSeriesSync:
		return m.syncSeries(row)
	case ActionDeferAdvance:
		return m, tea.Tick(m.gestures.Window(), func(time.Time) tea.Msg {
			return deferredActivationMsg{token: token, rowID: rowID}
		})
	}
	return m, m.flushTitle()
}

func (m Model) syncSeries(row *wl.Row) (Model, tea.Cmd) {
	if !row.InSeries() {
		return m.toast("Program has no series", toaster.StyleInfo)
	}
	n := m.ctrl.SyncSeries(row.ID)
	title := m.flushTitle()
	var toast tea.Cmd
	m, toast = m.toast(fmt.Sprintf("Series %s: %d programs", row.Info.SeriesTitle, n), toaster.StyleInfo)
	return m, tea.Batch(title, toast)
}

func (m Model) focusForm() (Model, tea.Cmd) {
	m.formFocus = true
	return m, m.form.Focus()
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Form.Leave):
		m.formFocus = false
		m.form.Blur()
		return m, nil
	case key.Matches(msg, keys.Form.Submit):
		return m.submitAdd()
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}
	if m.addGate.Busy() {
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) provider() string {
	if m.page != nil && m.page.Provider != "" {
		return m.page.Provider
	}
	return m.services.Config.Provider
}

func (m Model) submitAdd() (Model, tea.Cmd) {
	uris := api.SplitURIs(m.form.Value())
	if len(uris) == 0 {
		return m.toast("Nothing to add", toaster.StyleWarn)
	}
	if err := m.addGate.TryAcquire(); err != nil {
		return m.toast("Add programs is busy", toaster.StyleWarn)
	}
	provider := m.provider()
	log.Info(log.CatAPI, "Adding programs", "count", len(uris), "provider", provider)
	return m, m.request(requestAdd, "", func(ctx context.Context) (api.Response, error) {
		return m.services.API.AddPrograms(ctx, provider, uris)
	})
}

func (m Model) submitCommand(c api.Command) (Model, tea.Cmd) {
	if m.ctrl == nil {
		return m, nil
	}
	ids := m.ctrl.SelectedIDs()
	if len(ids) == 0 {
		return m.toast("No programs selected", toaster.StyleWarn)
	}
	if err := m.commandGate.TryAcquire(); err != nil {
		return m.toast(string(c)+" is busy", toaster.StyleWarn)
	}
	req := api.CommandRequest{
		Command:    c,
		ProgramIDs: ids,
		Provider:   m.provider(),
		SortBy:     m.sortBy,
	}
	log.Info(log.CatAPI, "Running command", "command", c, "programs", len(ids))
	return m, m.request(requestCommand, c, func(ctx context.Context) (api.Response, error) {
		return m.services.API.Command(ctx, req)
	})
}

// request runs call off the update loop. The result is recorded before the
// completion message is delivered.
func (m Model) request(kind requestKind, c api.Command, call func(context.Context) (api.Response, error)) tea.Cmd {
	recorder := m.services.Results
	return func() tea.Msg {
		ctx := context.Background()
		resp, err := call(ctx)
		recorder.Record(ctx, resp, err)
		return requestDoneMsg{kind: kind, command: c, resp: resp, err: err}
	}
}

func (m Model) handleRequestDone(msg requestDoneMsg) (Model, tea.Cmd) {
	switch msg.kind {
	case requestAdd:
		m.addGate.Release()
	case requestCommand:
		m.commandGate.Release()
	}

	if msg.err != nil {
		text := msg.err.Error()
		var statusErr *api.StatusError
		switch {
		case errors.Is(msg.err, context.DeadlineExceeded):
			text = "request timed out"
		case errors.As(msg.err, &statusErr):
			text = statusErr.Status
		}
		if msg.kind == requestAdd {
			var focus, toast tea.Cmd
			m, focus = m.focusForm()
			m, toast = m.toast("Add failed: "+text, toaster.StyleError)
			return m, tea.Batch(focus, toast)
		}
		return m.toast(string(msg.command)+" failed: "+text, toaster.StyleError)
	}

	summary := msg.resp.Result.Summary()
	var follow, toast tea.Cmd
	if msg.kind == requestAdd {
		m.form.Reset()
		m, follow = m.focusForm()
		m, toast = m.toast("Added: "+summary, toaster.StyleSuccess)
		return m, tea.Batch(follow, toast)
	}

	m.loading = true
	follow = m.loadPage(true)
	m, toast = m.toast(string(msg.command)+": "+summary, toaster.StyleSuccess)
	return m, tea.Batch(follow, toast)
}

func (m Model) setSort(sortBy string) (Model, tea.Cmd) {
	m.sortBy = sortBy
	m.panel = PanelSort
	m.loading = true
	cmds := []tea.Cmd{m.loadPage(false)}
	if path := m.services.ConfigPath; path != "" {
		cmds = append(cmds, func() tea.Msg {
			return sortSavedMsg{sortBy: sortBy, err: config.SaveSortBy(path, sortBy)}
		})
	}
	return m, tea.Batch(cmds...)
}

func (m Model) copyEditURL(rowID string) tea.Cmd {
	url := m.services.API.EditProgramURL(m.provider(), rowID)
	clip := m.services.Clipboard
	return func() tea.Msg {
		return copiedMsg{url: url, err: clip.Copy(url)}
	}
}

func (m Model) loadPage(refresh bool) tea.Cmd {
	services := m.services
	sortBy := m.sortBy
	return func() tea.Msg {
		p, err := services.loadPage(context.Background(), sortBy, refresh)
		return pageLoadedMsg{page: p, err: err}
	}
}

func (m Model) loadHighlight() tea.Cmd {
	store := m.services.Highlights
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, err := highlight.Load(context.Background(), store)
		return highlightLoadedMsg{cfg: cfg, err: err}
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.cursor = max(m.cursor-1, 0)
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.ctrl != nil {
			m.cursor = min(m.cursor+1, max(m.ctrl.Len()-1, 0))
		}
		return m, nil
	}
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	for i := range panelNames {
		if inZone(makeTabZoneID(i), msg) {
			m.panel = Panel(i)
			return m, nil
		}
	}
	if cmd, ok := m.buttonAt(msg); ok {
		return cmd(m)
	}
	if m.panel == PanelAdd && inZone(zoneAddInput, msg) {
		return m.focusForm()
	}

	if m.ctrl == nil {
		return m, nil
	}
	for i, row := range m.ctrl.Rows() {
		// Series first, then links, then the checkbox, then the row.
		for _, target := range []Target{TargetSeries, TargetLink, TargetCheckbox, TargetRow} {
			if inZone(makeCellZoneID(target, row.ID), msg) {
				m.cursor = i
				return m.activate(target, row.ID)
			}
		}
	}
	return m, nil
}

type buttonAction func(Model) (Model, tea.Cmd)

func (m Model) buttonAt(msg tea.MouseMsg) (buttonAction, bool) {
	switch m.panel {
	case PanelCommand:
		for _, c := range api.Commands {
			if inZone(makeButtonZoneID(string(c)), msg) {
				return func(m Model) (Model, tea.Cmd) { return m.submitCommand(c) }, true
			}
		}
	case PanelAdd:
		if inZone(makeButtonZoneID("submit"), msg) {
			return func(m Model) (Model, tea.Cmd) { return m.submitAdd() }, true
		}
	case PanelSort:
		for _, s := range page.SortOrders {
			if inZone(makeButtonZoneID(s), msg) {
				return func(m Model) (Model, tea.Cmd) { return m.setSort(s) }, true
			}
		}
	}
	return nil, false
}

func inZone(id string, msg tea.MouseMsg) bool {
	z := zone.Get(id)
	return z != nil && z.InBounds(msg)
}
