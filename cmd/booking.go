package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/manikadiri/healthnav/internal/domain"
)

type bookFunc func(context.Context) (domain.Token, error)

type bookingDoneMsg struct {
	token domain.Token
	err   error
}

// bookingModel animates a single booking request and keeps its outcome.
type bookingModel struct {
	ctx      context.Context
	spinner  spinner.Model
	hospital domain.HospitalID
	book     bookFunc

	done  bool
	token domain.Token
	err   error
}

func newBookingModel(ctx context.Context, hospital domain.HospitalID, book bookFunc) bookingModel {
	return bookingModel{
		ctx: ctx,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("214"))),
		),
		hospital: hospital,
		book:     book,
	}
}

func (m bookingModel) Init() tea.Cmd {
	ctx, book := m.ctx, m.book
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		token, err := book(ctx)
		return bookingDoneMsg{token: token, err: err}
	})
}

func (m bookingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case bookingDoneMsg:
		m.done = true
		m.token, m.err = msg.token, msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m bookingModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Booking token at hospital %s...", m.spinner.View(), m.hospital)
}

// Result returns the booked token and its confirmation line, or the error
// the user should see.
func (m bookingModel) Result() (domain.Token, string, error) {
	if !m.done {
		return domain.Token{}, "", errors.New("booking did not finish")
	}
	if m.err != nil {
		return domain.Token{}, "", bookingError(m.err)
	}
	return m.token, fmt.Sprintf("Token %s booked for %s!", m.token.Code, hospitalLabel(m.token)), nil
}

// runBooking books behind a spinner drawn on output.
func runBooking(ctx context.Context, output io.Writer, hospital domain.HospitalID, book bookFunc) (domain.Token, string, error) {
	p := tea.NewProgram(
		newBookingModel(ctx, hospital, book),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return domain.Token{}, "", fmt.Errorf("run booking spinner: %w", err)
	}

	result, ok := finalModel.(bookingModel)
	if !ok {
		return domain.Token{}, "", fmt.Errorf("unexpected booking model type %T", finalModel)
	}
	return result.Result()
}

func bookingError(err error) error {
	var rejected *domain.BookingRejectedError
	switch {
	case errors.As(err, &rejected):
		return errors.New(rejected.Message)
	case errors.Is(err, domain.ErrServiceUnavailable):
		return fmt.Errorf("could not book token, try again: %w", err)
	default:
		return err
	}
}

func hospitalLabel(token domain.Token) string {
	if token.HospitalName != "" {
		return token.HospitalName
	}
	return "hospital " + string(token.HospitalID)
}
