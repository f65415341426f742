package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/manikadiri/healthnav/internal/adapters/render/queue"
	"github.com/manikadiri/healthnav/internal/application"
	"github.com/manikadiri/healthnav/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func newTokenCmd(loader *appLoader) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Book, inspect and cancel smart-queue tokens",
	}

	tokenCmd.AddCommand(
		newTokenBookCmd(loader),
		newTokenShowCmd(loader),
		newTokenCancelCmd(loader),
		newTokenWatchCmd(loader),
	)

	return tokenCmd
}

func newTokenBookCmd(loader *appLoader) *cobra.Command {
	var hospital string
	var watch bool

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a smart-queue token, replacing any active one",
		Args:  cobra.NoArgs,
		RunE: loader.run(func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()

			if _, _, err := a.lifecycle.Restore(ctx); err != nil {
				return err
			}

			sessionID, _, err := a.sessions.EnsureSession(ctx)
			if err != nil {
				return err
			}

			token, confirmation, err := runBooking(ctx, cmd.ErrOrStderr(), domain.HospitalID(hospital), func(ctx context.Context) (domain.Token, error) {
				return a.lifecycle.BookToken(ctx, domain.HospitalID(hospital), sessionID)
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, confirmation)
			if watch {
				return runWatch(cmd, a, &token, true)
			}

			_, err = fmt.Fprintln(out, queue.Render(queue.BuildView(queue.SnapshotFromToken(&token)), queue.RenderOptions{}))
			return err
		}),
	}

	cmd.Flags().StringVar(&hospital, "hospital", "", "Hospital id to book at")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep watching the queue after booking")
	_ = cmd.MarkFlagRequired("hospital")

	return cmd
}

func newTokenShowCmd(loader *appLoader) *cobra.Command {
	var output string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active token and its queue position",
		Args:  cobra.NoArgs,
		RunE: loader.run(func(cmd *cobra.Command, a *app, _ []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			token, ok, err := a.lifecycle.Restore(ctx)
			if err != nil {
				return err
			}

			var current *domain.Token
			if ok {
				current = &token
			}

			var alert *domain.Alert
			if ok && refresh {
				event, applied, err := a.lifecycle.Refresh(ctx)
				if err != nil {
					return err
				}
				if applied {
					current = event.Current
					alert = event.Alert
				}
			}

			view := queue.BuildView(queue.SnapshotFromToken(current))
			if alert != nil && format == outputText {
				fmt.Fprintln(cmd.OutOrStdout(), alert.Message)
			}

			return writeView(cmd.OutOrStdout(), view, format)
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the latest queue position before showing")

	return cmd
}

func newTokenCancelCmd(loader *appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the active token",
		Args:  cobra.NoArgs,
		RunE: loader.run(func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()

			token, ok, err := a.lifecycle.Restore(ctx)
			if err != nil {
				return err
			}
			if err := a.lifecycle.CancelToken(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !ok {
				_, err = fmt.Fprintln(out, "No active token.")
				return err
			}
			_, err = fmt.Fprintf(out, "Token %s cancelled.\n", token.Code)
			return err
		}),
	}
}

func newTokenWatchCmd(loader *appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the active token's queue position live",
		Args:  cobra.NoArgs,
		RunE: loader.run(func(cmd *cobra.Command, a *app, _ []string) error {
			token, ok, err := a.lifecycle.Resume(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return runWatch(cmd, a, nil, false)
			}
			return runWatch(cmd, a, &token, true)
		}),
	}
}

// runWatch drives the live token screen until the user quits or cancels.
// The lifecycle poller must already be running for token.
func runWatch(cmd *cobra.Command, a *app, token *domain.Token, polling bool) error {
	ctx := cmd.Context()

	model := queue.NewWatchModel(token, polling, a.pollInterval, func() error {
		return a.lifecycle.CancelToken(ctx)
	})

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	unsubscribe := a.lifecycle.Subscribe(func(event application.UpdateEvent) {
		p.Send(queue.EventMsg{Event: event})
	})
	defer unsubscribe()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run watch screen: %w", err)
	}

	if result, ok := finalModel.(queue.WatchModel); ok && result.Cancelled() {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "Token cancelled.")
		return err
	}
	return nil
}

func parseOutputFormat(value string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(value))
	switch format {
	case "", outputText:
		return outputText, nil
	case outputJSON, outputYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or yaml)", value)
	}
}

func writeView(w io.Writer, view queue.View, format string) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, queue.Render(view, queue.RenderOptions{}))
		return err
	}
}
