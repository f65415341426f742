package queue

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/manikadiri/healthnav/internal/domain"
)

type styles struct {
	title    lipgloss.Style
	hospital lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	hint     lipgloss.Style
	status   lipgloss.Style
	footer   lipgloss.Style
	errText  lipgloss.Style
	tiers    map[domain.Tier]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		hospital: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		value:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		hint:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		status:   lipgloss.NewStyle().Bold(true),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errText:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		tiers: map[domain.Tier]lipgloss.Style{
			domain.TierSuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			domain.TierWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
			domain.TierInfo:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		},
	}
}

func (s styles) tier(tier domain.Tier) lipgloss.Style {
	if style, ok := s.tiers[tier]; ok {
		return style
	}
	return s.value
}

func tierColor(tier domain.Tier) string {
	switch tier {
	case domain.TierSuccess:
		return "42"
	case domain.TierWarning:
		return "214"
	default:
		return "69"
	}
}
