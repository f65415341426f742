package queue

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 30

type RenderOptions struct {
	BarWidth int
}

// Render draws view as terminal text.
func Render(view View, opts RenderOptions) string {
	return renderView(view, opts, newStyles())
}

func renderView(view View, opts RenderOptions, s styles) string {
	if !view.HasToken {
		return lipgloss.JoinVertical(lipgloss.Left,
			s.title.Render("Smart Queue"),
			s.empty.Render(view.BookingHint),
		)
	}

	title := lipgloss.JoinHorizontal(lipgloss.Top,
		s.title.Render("Token "+view.Code),
		" ",
		s.hospital.Render(view.HospitalName),
	)

	numbers := lipgloss.JoinHorizontal(lipgloss.Top,
		s.label.Render("People ahead: "), s.value.Render(view.PeopleAheadText),
		"   ",
		s.label.Render("Estimated wait: "), s.value.Render(view.WaitText),
		"   ",
		s.label.Render("Now serving: "), s.value.Render(view.CurrentCounter),
	)

	tierStyle := s.tier(view.Tier)
	barLine := lipgloss.JoinHorizontal(lipgloss.Top,
		renderProgressBar(view, opts.BarWidth),
		" ",
		tierStyle.Render(fmt.Sprintf("%d%%", view.ProgressPercent)),
	)

	alert := lipgloss.JoinHorizontal(lipgloss.Top,
		tierStyle.Render(view.Headline),
		" ",
		s.hospital.Render(view.Detail),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		numbers,
		s.section.Render(barLine),
		s.section.Render(alert),
		s.status.Render(view.StatusLine),
	)
}

func renderProgressBar(view View, width int) string {
	if width <= 0 {
		width = defaultBarWidth
	}

	bar := progress.New(
		progress.WithSolidFill(tierColor(view.Tier)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return bar.ViewAs(float64(view.ProgressPercent) / 100)
}
