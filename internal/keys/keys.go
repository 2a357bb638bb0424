// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the worklist.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Row state
	Advance key.Binding
	Check   key.Binding
	Series  key.Binding

	// Panels and actions
	NextPanel    key.Binding
	Retry        key.Binding
	Abort        key.Binding
	Remove       key.Binding
	AddForm      key.Binding
	SortByStatus key.Binding
	SortByTitle  key.Binding
	SortByUpdate key.Binding
	Reload       key.Binding
	CopyEdit     key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// FormKeyMap defines the keybindings while the add form has focus.
type FormKeyMap struct {
	Submit key.Binding
	Leave  key.Binding
}

// Worklist is the default worklist keymap.
var Worklist = DefaultKeyMap()

// Form is the default add form keymap.
var Form = DefaultFormKeyMap()

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),

		Advance: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "next state"),
		),
		Check: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle check"),
		),
		Series: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync series"),
		),

		NextPanel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		Retry: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "retry"),
		),
		Abort: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "abort"),
		),
		Remove: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "remove"),
		),
		AddForm: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add programs"),
		),
		SortByStatus: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort by status"),
		),
		SortByTitle: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort by title"),
		),
		SortByUpdate: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort by update"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		CopyEdit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "copy edit url"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DefaultFormKeyMap returns the add form keybindings. ctrl+s stands in
// for ctrl+enter, which most terminals cannot report.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave form"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Check, k.Series, k.NextPanel, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},                                      // Navigation
		{k.Advance, k.Check, k.Series},                      // Rows
		{k.Retry, k.Abort, k.Remove, k.AddForm, k.CopyEdit}, // Actions
		{k.NextPanel, k.SortByStatus, k.SortByTitle, k.SortByUpdate, k.Reload}, // Panels
		{k.Help, k.Quit}, // General
	}
}

// ShortHelp returns the form bindings.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Leave}
}

// FullHelp returns the form bindings in one column.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Logs toggles the log view. Only bound in debug mode.
var Logs = key.NewBinding(
	key.WithKeys("ctrl+x"),
	key.WithHelp("ctrl+x", "logs"),
)
