package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	branchesapp "github.com/sbitxtools/branchctl/internal/app/branches"
	"github.com/sbitxtools/branchctl/internal/app/orchestrate"
	repolistapp "github.com/sbitxtools/branchctl/internal/app/repolist"
	statusapp "github.com/sbitxtools/branchctl/internal/app/status"
	"github.com/sbitxtools/branchctl/internal/domain"
	"github.com/sbitxtools/branchctl/internal/infra/buildcli"
	"github.com/sbitxtools/branchctl/internal/infra/configstore"
	"github.com/sbitxtools/branchctl/internal/infra/gitcli"
	"github.com/sbitxtools/branchctl/internal/infra/gitmeta"
	"github.com/sbitxtools/branchctl/internal/infra/ident"
	"github.com/sbitxtools/branchctl/internal/infra/runlog"
	"github.com/sbitxtools/branchctl/internal/platform"
)

func newRepoCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage the saved repository list",
		RunE:  runHelp,
	}
	cmd.AddCommand(newRepoListCmd(opts), newRepoAddCmd(opts), newRepoRemoveCmd(opts))
	return cmd
}

func newRepoListCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved repositories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := newConfigStore(opts)
			if err != nil {
				return err
			}
			cfg, err := loadConfigLenient(cmd, store, opts)
			if err != nil {
				return err
			}
			return writeRepoList(cmd, cfg, opts.JSONOutput)
		},
	}
}

func newRepoAddCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Add a repository (owner/repo, https or ssh form)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newConfigStore(opts)
			if err != nil {
				return err
			}
			service := repolistapp.NewService(store, platform.RealClock{}, slog.Default())
			repo, err := service.Add(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeRepoAdded(cmd, repo, opts.JSONOutput)
		},
	}
}

func newRepoRemoveCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <url>",
		Short: "Remove a repository from the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newConfigStore(opts)
			if err != nil {
				return err
			}
			service := repolistapp.NewService(store, platform.RealClock{}, slog.Default())
			if err := service.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			return writeRepoRemoved(cmd, args[0], opts.JSONOutput)
		},
	}
}

func newBranchesCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "branches [url]",
		Short: "List branches a remote repository advertises",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			if raw == "" {
				store, err := newConfigStore(opts)
				if err != nil {
					return err
				}
				cfg, err := loadConfigLenient(cmd, store, opts)
				if err != nil {
					return err
				}
				raw = fallbackRepoURL(cfg)
			}

			service := branchesapp.NewService(newGit(cmd))
			var branches []string
			spin := spinnerEnabled(cmd.ErrOrStderr(), opts.JSONOutput)
			label := newRenderer(cmd.ErrOrStderr(), opts.JSONOutput).key("Fetching branches")
			err := withSpinner(cmd.Context(), cmd.ErrOrStderr(), spin, label, func() error {
				var err error
				branches, err = service.List(cmd.Context(), raw)
				return err
			})
			if err != nil {
				return err
			}
			return writeBranches(cmd, raw, branches, opts.JSONOutput)
		},
	}
}

func newRunCmd(opts *RootOptions) *cobra.Command {
	var repoURL string
	var branch string
	var clean bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check out a branch and build it",
		Long: "Brings the target directory to the requested branch of the requested\n" +
			"repository (cloning or switching the remote as needed), syncs\n" +
			"submodules and runs the firmware build.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := newConfigStore(opts)
			if err != nil {
				return err
			}
			cfg, err := loadConfigLenient(cmd, store, opts)
			if err != nil {
				return err
			}
			if repoURL == "" {
				repoURL = fallbackRepoURL(cfg)
			}
			if branch == "" {
				branch = cfg.LastUsedBranch
			}

			history, err := runlog.Open(opts.HistoryPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = history.Close()
			}()

			git := newGit(cmd)
			builder := buildcli.New(slog.Default(), cmd.ErrOrStderr(), "")
			service := orchestrate.NewService(orchestrate.Deps{
				Prober:   git,
				Remote:   git,
				Switcher: git,
				Builder:  builder,
				Status:   gitmeta.NewSource(),
				LastUsed: store,
				History:  runHistory{store: history},
				IDs:      ident.NewULIDGenerator(),
				Clock:    platform.RealClock{},
				Logger:   slog.Default(),
			})

			req, err := service.Validate(orchestrate.Request{
				RepoURL: repoURL,
				Branch:  branch,
				Target:  opts.Target,
				Clean:   clean,
			})
			if err != nil {
				return err
			}

			res := service.Execute(cmd.Context(), req, runEventPrinter(cmd, opts))
			if res.State != domain.RunSucceeded {
				return runExitError(res)
			}
			return writeRunResult(cmd, res, opts.JSONOutput)
		},
	}
	cmd.Flags().StringVar(&repoURL, "repo", "", "Repository URL (defaults to the last-used repository)")
	cmd.Flags().StringVar(&branch, "branch", "", "Branch to check out (defaults to the last-used branch)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Run \"make clean\" before building")
	return cmd
}

func newStatusCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the target directory currently holds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			git := newGit(cmd)
			builder := buildcli.New(slog.Default(), cmd.ErrOrStderr(), "")
			service := statusapp.NewService(git, gitmeta.NewSource(), builder)

			report, err := service.Inspect(cmd.Context(), opts.Target)
			if err != nil {
				return err
			}

			// A working tree pointing at an unlisted repository gets
			// adopted into the list, so the next run can select it.
			if report.Checkout.Known {
				if store, storeErr := newConfigStore(opts); storeErr == nil {
					repos := repolistapp.NewService(store, platform.RealClock{}, slog.Default())
					if adoptErr := repos.Adopt(cmd.Context(), report.Checkout.RepoURL); adoptErr != nil {
						slog.Default().Warn("could not adopt current origin", "error", adoptErr)
					}
				}
			}

			return writeStatusReport(cmd, report, opts.JSONOutput)
		},
	}
}

func newHistoryCmd(opts *RootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := runlog.Open(opts.HistoryPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeHistory(cmd, records, opts.JSONOutput)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func newConfigStore(opts *RootOptions) (*configstore.Store, error) {
	return configstore.New(opts.ConfigPath, platform.RealClock{}, slog.Default())
}

func newGit(cmd *cobra.Command) *gitcli.Git {
	return gitcli.New(slog.Default(), cmd.ErrOrStderr())
}

// loadConfigLenient surfaces a corrupt config file as a warning and
// keeps going with the restored defaults.
func loadConfigLenient(cmd *cobra.Command, store *configstore.Store, opts *RootOptions) (domain.Config, error) {
	cfg, err := store.Load(cmd.Context())
	if err != nil {
		if errors.Is(err, configstore.ErrCorruptConfig) {
			ui := newRenderer(cmd.ErrOrStderr(), opts.JSONOutput)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", ui.warn("Warning"), err)
			return cfg, nil
		}
		return domain.Config{}, err
	}
	return cfg, nil
}

func fallbackRepoURL(cfg domain.Config) string {
	if strings.TrimSpace(cfg.LastUsedURL) != "" {
		return cfg.LastUsedURL
	}
	return domain.DefaultRepoURL
}

// runEventPrinter renders run events as they arrive. In JSON mode the
// progress stream is suppressed; only the final result is printed.
func runEventPrinter(cmd *cobra.Command, opts *RootOptions) func(domain.Event) {
	out := cmd.ErrOrStderr()
	ui := newRenderer(out, opts.JSONOutput)
	return func(ev domain.Event) {
		if opts.JSONOutput {
			return
		}
		switch ev.Kind {
		case domain.EventProgress:
			fmt.Fprintf(out, "%s %s\n", ui.key("=>"), ev.Message)
		case domain.EventWarning:
			fmt.Fprintf(out, "%s: %s\n", ui.warn("Warning"), ev.Message)
		case domain.EventSucceeded:
			fmt.Fprintf(out, "%s\n", ui.ok(ev.Message))
		case domain.EventBuildFailed, domain.EventError:
			// The terminal failure is rendered once by the exit path.
		}
	}
}

// runHistory adapts the run history store to the orchestration port.
type runHistory struct {
	store *runlog.Store
}

func (h runHistory) Append(ctx context.Context, rec orchestrate.RunRecord) error {
	return h.store.Append(ctx, runlog.Record{
		ID:         rec.ID,
		RepoURL:    rec.RepoURL,
		Branch:     rec.Branch,
		State:      rec.State,
		Failure:    rec.Failure,
		Message:    rec.Message,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
	})
}

func runHelp(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
