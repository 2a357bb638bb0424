// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // series names, ids
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // hints, help, footers
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"} // detail lines

	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	// Row state colors, one per worklist status.
	RowUncheckedColor  = TextPrimaryColor
	RowCheckedColor    = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#54A0FF"}
	RowShowDetailColor = lipgloss.AdaptiveColor{Light: "#6C3483", Dark: "#CBA6F7"}

	// Highlight backgrounds for keywords and bracketed corner titles.
	KeywordBgColor = lipgloss.AdaptiveColor{Light: "#FFC0C0", Dark: "#8A3A3A"}
	CornerBgColor  = lipgloss.AdaptiveColor{Light: "#C0FFFF", Dark: "#1F5F5F"}

	// Buttons
	ButtonTextColor           = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor      = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonDangerBgColor       = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#922B21"}
	ButtonDisabledBgColor     = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#2D2D2D"}

	// Toast notification colors
	ToastBorderSuccessColor = StatusSuccessColor
	ToastBorderErrorColor   = StatusErrorColor
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = StatusWarningColor

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	baseButtonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true)

	PrimaryButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonPrimaryBgColor)

	PrimaryButtonFocusedStyle = baseButtonStyle.
					Foreground(ButtonTextColor).
					Background(ButtonPrimaryFocusBgColor).
					Underline(true).
					UnderlineSpaces(true)

	DangerButtonStyle = baseButtonStyle.
				Foreground(ButtonTextColor).
				Background(ButtonDangerBgColor)

	DisabledButtonStyle = baseButtonStyle.
				Foreground(TextMutedColor).
				Background(ButtonDisabledBgColor)

	// Menu bar tabs
	TabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(TextMutedColor)
	ActiveTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(BorderHighlightFocusColor).
			Underline(true)

	// Title badge "(n)"
	BadgeStyle = lipgloss.NewStyle().Bold(true).Foreground(RowCheckedColor)

	SeriesStyle  = lipgloss.NewStyle().Foreground(TextSecondaryColor).Underline(true)
	EpisodeStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor).Underline(true)
	DetailStyle  = lipgloss.NewStyle().Foreground(TextDescriptionColor)
	MutedStyle   = lipgloss.NewStyle().Foreground(TextMutedColor)

	KeywordStyle = lipgloss.NewStyle().Background(KeywordBgColor)
	CornerStyle  = lipgloss.NewStyle().Background(CornerBgColor)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true).
			Padding(1, 2)
)

// RowStyle returns the style for a row in the given status. Unknown
// statuses render like unchecked rows.
func RowStyle(status string) lipgloss.Style {
	switch status {
	case "CHECKED_HIDE_DETAIL":
		return lipgloss.NewStyle().Foreground(RowCheckedColor).Bold(true)
	case "CHECKED_SHOW_DETAIL":
		return lipgloss.NewStyle().Foreground(RowShowDetailColor).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(RowUncheckedColor)
	}
}
