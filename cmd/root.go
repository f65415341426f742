package cmd

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

// appLoader defers wiring until flags are parsed, so --config, --log-level
// and --api-url reach the config layer.
type appLoader struct {
	opts rootOptions
}

// run wraps a command body with wiring and teardown.
func (l *appLoader) run(fn func(cmd *cobra.Command, app *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := wireApp(l.opts, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := a.close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()

		return fn(cmd, a, args)
	}
}

func newRootCmd() *cobra.Command {
	loader := &appLoader{}

	rootCmd := &cobra.Command{
		Use:           "healthnav",
		Short:         "Health portal smart-queue client",
		Long:          "healthnav books smart-queue tokens at a hospital, tracks your place in the queue and alerts you when your turn is near.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&loader.opts.configFile, "config", "", "config file (default ~/.healthnav/config.toml)")
	flags.StringVar(&loader.opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&loader.opts.apiURL, "api-url", "", "portal API base URL")

	rootCmd.AddCommand(
		newVersionCmd(),
		newTokenCmd(loader),
		newSessionCmd(loader),
		newHistoryCmd(loader),
	)

	return rootCmd
}
