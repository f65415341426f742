package queue

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/manikadiri/healthnav/internal/application"
	"github.com/manikadiri/healthnav/internal/domain"
)

// EventMsg carries a lifecycle update into a running WatchModel.
type EventMsg struct {
	Event application.UpdateEvent
}

type cancelDoneMsg struct {
	err error
}

// WatchModel is the live token screen. It re-renders on every EventMsg and
// offers cancellation through the supplied cancel function.
type WatchModel struct {
	view         View
	opts         RenderOptions
	styles       styles
	spinner      spinner.Model
	pollInterval time.Duration
	polling      bool
	alert        *domain.Alert
	cancel       func() error
	cancelling   bool
	cancelled    bool
	err          error
}

func NewWatchModel(token *domain.Token, polling bool, pollInterval time.Duration, cancel func() error) WatchModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return WatchModel{
		view:         BuildView(SnapshotFromToken(token)),
		styles:       newStyles(),
		spinner:      s,
		pollInterval: pollInterval,
		polling:      polling,
		cancel:       cancel,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "x":
			if m.cancel == nil || !m.view.HasToken || m.cancelling {
				return m, nil
			}
			m.cancelling = true
			cancel := m.cancel
			return m, func() tea.Msg {
				return cancelDoneMsg{err: cancel()}
			}
		}
		return m, nil
	case EventMsg:
		m.applyEvent(msg.Event)
		return m, nil
	case cancelDoneMsg:
		m.cancelling = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.cancelled = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

// applyEvent shows an alert only for the update that raised it.
func (m *WatchModel) applyEvent(event application.UpdateEvent) {
	m.view = BuildView(SnapshotFromToken(event.Current))
	m.alert = event.Alert
	switch {
	case event.Current == nil:
		m.polling = false
	case event.Kind == application.EventBooked:
		m.polling = true
	case event.Current.Served():
		m.polling = false
	}
}

func (m WatchModel) View() string {
	if m.cancelled {
		return ""
	}

	lines := []string{renderView(m.view, m.opts, m.styles)}

	if m.alert != nil {
		style := m.styles.tier(domain.TierWarning)
		if m.alert.Urgency == domain.UrgencyNow {
			style = m.styles.tier(domain.TierSuccess)
		}
		lines = append(lines, m.styles.section.Render(style.Render(m.alert.Message)))
	}
	if m.err != nil {
		lines = append(lines, m.styles.errText.Render(fmt.Sprintf("error: %v", m.err)))
	}

	switch {
	case m.cancelling:
		lines = append(lines, m.styles.section.Render(m.spinner.View()+" Cancelling token..."))
	case m.polling:
		lines = append(lines, m.styles.section.Render(fmt.Sprintf("%s Checking the queue every %s", m.spinner.View(), m.pollInterval)))
	}

	footer := "q quit"
	if m.view.HasToken && m.cancel != nil {
		footer += "  x cancel token"
	}
	lines = append(lines, m.styles.footer.Render(footer))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m WatchModel) Cancelled() bool {
	return m.cancelled
}

func (m WatchModel) CurrentView() View {
	return m.view
}

func (m WatchModel) Alert() *domain.Alert {
	return m.alert
}
