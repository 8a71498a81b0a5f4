package ui

import "github.com/charmbracelet/lipgloss"

// Colors for the UI theme.
var (
	ColorPrimary   = lipgloss.Color("#A78BFA") // Lavender
	ColorSecondary = lipgloss.Color("#22D3EE") // Cyan
	ColorSuccess   = lipgloss.Color("#059669")
	ColorWarning   = lipgloss.Color("#D97706")
	ColorError     = lipgloss.Color("#DC2626")
	ColorMuted     = lipgloss.Color("#9CA3AF")
	ColorText      = lipgloss.Color("#F1F5F9")
	ColorBg        = lipgloss.Color("#0F172A")
	ColorDim       = lipgloss.Color("#6B7280")
	ColorInfo      = lipgloss.Color("#2DD4BF")
	ColorLink      = lipgloss.Color("#93C5FD")
)

// Styles contains all UI styles.
type Styles struct {
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Chip      lipgloss.Style
	ChipOn    lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Label        lipgloss.Style

	Answer     lipgloss.Style
	Bullet     lipgloss.Style
	SourceNum  lipgloss.Style
	SourceLink lipgloss.Style
	Snippet    lipgloss.Style
	Diagnostic lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Spinner lipgloss.Style
	Dim     lipgloss.Style

	StatusBar     lipgloss.Style
	StatusSegment lipgloss.Style
	StatusValue   lipgloss.Style

	ModalBorder   lipgloss.Style
	ModalTitle    lipgloss.Style
	ModalSelected lipgloss.Style
	ModalNormal   lipgloss.Style
	ModalMuted    lipgloss.Style

	Cursor lipgloss.Style
}

// DefaultStyles returns the default UI styles.
func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Tab:    lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(ColorText).
			Background(ColorPrimary).Padding(0, 1),
		Chip:   lipgloss.NewStyle().Foreground(ColorDim).Padding(0, 1),
		ChipOn: lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Padding(0, 1),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1),
		Label: lipgloss.NewStyle().Foreground(ColorMuted),

		Answer:     lipgloss.NewStyle().Foreground(ColorText),
		Bullet:     lipgloss.NewStyle().Foreground(ColorSecondary),
		SourceNum:  lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
		SourceLink: lipgloss.NewStyle().Foreground(ColorLink).Underline(true),
		Snippet:    lipgloss.NewStyle().Foreground(ColorMuted),
		Diagnostic: lipgloss.NewStyle().Foreground(ColorDim).Italic(true),

		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning).Bold(true),
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Spinner: lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorDim),

		StatusBar:     lipgloss.NewStyle().Foreground(ColorMuted).Background(ColorBg).Padding(0, 1),
		StatusSegment: lipgloss.NewStyle().Foreground(ColorMuted),
		StatusValue:   lipgloss.NewStyle().Foreground(ColorText).Bold(true),

		ModalBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1),
		ModalTitle:    lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary),
		ModalSelected: lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary),
		ModalNormal:   lipgloss.NewStyle().Foreground(ColorMuted),
		ModalMuted:    lipgloss.NewStyle().Foreground(ColorDim).Italic(true),

		Cursor: lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
	}
}

// FormatError renders an inline error line.
func (s *Styles) FormatError(msg string) string {
	return s.Error.Render("✗ ") + msg
}
