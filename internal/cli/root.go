package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sbitxtools/branchctl/internal/app/paths"
	"github.com/sbitxtools/branchctl/internal/platform"
)

type RootOptions struct {
	Target      string
	ConfigPath  string
	HistoryPath string
	JSONOutput  bool
	LogLevel    string
	LogFormat   string
}

func newRootCmd() *cobra.Command {
	opts := &RootOptions{
		Target:      envDefault("BRANCHCTL_TARGET", paths.DefaultTarget),
		ConfigPath:  envDefault("BRANCHCTL_CONFIG", paths.DefaultConfigPath()),
		HistoryPath: envDefault("BRANCHCTL_HISTORY", paths.DefaultHistoryPath()),
		LogLevel:    envDefault("BRANCHCTL_LOG_LEVEL", "warn"),
		LogFormat:   envDefault("BRANCHCTL_LOG_FORMAT", "text"),
	}
	cmd := &cobra.Command{
		Use:           "branchctl",
		Short:         "Check out and build sBitx firmware branches",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := platform.ConfigureLogger(opts.LogLevel, opts.LogFormat, cmd.ErrOrStderr()); err != nil {
				return err
			}
			target, err := paths.NormalizeTargetPath(opts.Target)
			if err != nil {
				return err
			}
			opts.Target = target
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Target, "target", opts.Target, "Path to the firmware working tree")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Path to the repository list file")
	cmd.PersistentFlags().StringVar(&opts.HistoryPath, "history", opts.HistoryPath, "Path to the run history database")
	cmd.PersistentFlags().BoolVar(&opts.JSONOutput, "json", false, "Emit JSON output")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", opts.LogFormat, "Log format (text, json)")

	cmd.AddCommand(
		newRepoCmd(opts),
		newBranchesCmd(opts),
		newRunCmd(opts),
		newStatusCmd(opts),
		newHistoryCmd(opts),
	)

	return cmd
}

func envDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
