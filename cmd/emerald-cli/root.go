package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"emerald/internal/config"
)

var log = commonlog.GetLogger("emerald.cli")

// options are the persistent flags and the configuration they select.
type options struct {
	cfgFile string
	verbose int
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "emerald-cli",
		Short: "Emerald parser tools",
		Long: `Tools around the Emerald parser.

Commands:
  parse   - print the syntax tree of a file
  tokens  - print the token stream of a file
  check   - report syntax errors of one or more files
  repl    - read and parse statements interactively`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			if !cfg.General.Color {
				color.NoColor = true
			}
			commonlog.Configure(cfg.Verbosity(opts.verbose), nil)
			if cfg.Path != "" {
				log.Debugf("loaded config %s", cfg.Path)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: $EMERALD_CONFIG or ./emerald.toml)")
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(
		newParseCmd(opts),
		newTokensCmd(opts),
		newCheckCmd(opts),
		newReplCmd(),
	)
	return rootCmd
}

func readSource(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(source), nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
