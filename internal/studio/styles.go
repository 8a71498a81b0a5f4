package studio

import "github.com/charmbracelet/lipgloss"

var (
	colorBlue   = lipgloss.Color("#93C5FD")
	colorGreen  = lipgloss.Color("#86EFAC")
	colorPurple = lipgloss.Color("#D8B4FE")
	colorYellow = lipgloss.Color("#FDE047")
	colorCyan   = lipgloss.Color("#67E8F9")
	colorMuted  = lipgloss.Color("#9CA3AF")
)

type styles struct {
	title    lipgloss.Style
	heading  map[Kind]lipgloss.Style
	section  lipgloss.Style
	muted    lipgloss.Style
	branch   lipgloss.Style
	leaf     lipgloss.Style
	selected lipgloss.Style
}

func defaultStyles() styles {
	bold := lipgloss.NewStyle().Bold(true)
	return styles{
		title: bold.Underline(true),
		heading: map[Kind]lipgloss.Style{
			KindFAQ:        bold.Foreground(colorBlue),
			KindStudyGuide: bold.Foreground(colorGreen),
			KindBriefing:   bold.Foreground(colorPurple),
			KindTimeline:   bold.Foreground(colorYellow),
			KindMindMap:    bold.Foreground(colorCyan),
		},
		section:  bold,
		muted:    lipgloss.NewStyle().Foreground(colorMuted),
		branch:   lipgloss.NewStyle().Foreground(colorPurple),
		leaf:     lipgloss.NewStyle().Foreground(colorBlue),
		selected: lipgloss.NewStyle().Reverse(true),
	}
}
