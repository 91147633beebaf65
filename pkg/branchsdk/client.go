package branchsdk

import (
	"context"
	"errors"
	"time"

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

// Repository is a saved repository entry.
type Repository struct {
	URL     string
	Name    string
	Default bool
	AddedAt time.Time
}

// Status is a point-in-time view of the target directory.
type Status struct {
	Target       string
	Directory    string
	Repository   string
	Branch       string
	Known        bool
	BuildReady   bool
	BuildProblem string
}

// RunRequest selects what to check out and build.
type RunRequest struct {
	RepoURL string
	Branch  string
	Clean   bool
}

// Client wires the checkout/build services behind a small façade. One
// background worker serializes runs and branch fetches; their events
// arrive on Events.
type Client struct {
	cfg     Config
	store   *configstore.Store
	history *runlog.Store
	repos   *repolistapp.Service
	status  *statusapp.Service
	branch  *branchesapp.Service
	runner  *orchestrate.Runner

	events chan Event
}

// New builds a client. Close must be called to release the worker and
// the history database.
func New(cfg Config) (*Client, error) {
	normalized, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}

	store, err := configstore.New(normalized.ConfigPath, platform.RealClock{}, normalized.Logger)
	if err != nil {
		return nil, err
	}

	var history *runlog.Store
	if normalized.HistoryPath != "" {
		history, err = runlog.Open(normalized.HistoryPath)
		if err != nil {
			return nil, err
		}
	}

	git := gitcli.New(normalized.Logger, normalized.Progress)
	builder := buildcli.New(normalized.Logger, normalized.Progress, normalized.Product)
	meta := gitmeta.NewSource()

	deps := orchestrate.Deps{
		Prober:   git,
		Remote:   git,
		Switcher: git,
		Builder:  builder,
		Status:   meta,
		LastUsed: store,
		IDs:      ident.NewULIDGenerator(),
		Clock:    platform.RealClock{},
		Logger:   normalized.Logger,
	}
	if history != nil {
		deps.History = historyAdapter{store: history}
	}

	client := &Client{
		cfg:     normalized,
		store:   store,
		history: history,
		repos:   repolistapp.NewService(store, platform.RealClock{}, normalized.Logger),
		status:  statusapp.NewService(git, meta, builder),
		branch:  branchesapp.NewService(git),
		runner:  orchestrate.NewRunner(orchestrate.NewService(deps), git),
		events:  make(chan Event),
	}
	go client.translate()
	return client, nil
}

// Events delivers worker events in order. The channel closes after
// Close, once every pending event has been delivered.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Busy reports whether a run or branch fetch is in flight.
func (c *Client) Busy() bool {
	return c.runner.Busy()
}

// State returns the position of the current (or most recent) run:
// "idle", "probing", "cloning", "rewiring", "checking-out",
// "syncing-submodules", "building", "succeeded" or "failed".
func (c *Client) State() string {
	return string(c.runner.State())
}

// Repositories returns the saved list, defaults marked.
func (c *Client) Repositories(ctx context.Context) ([]Repository, error) {
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	repos := make([]Repository, 0, len(cfg.Repositories))
	for _, repo := range cfg.Repositories {
		repos = append(repos, Repository{
			URL:     repo.URL,
			Name:    repo.DisplayName,
			Default: cfg.IsDefaultURL(repo.URL),
			AddedAt: repo.AddedAt,
		})
	}
	return repos, nil
}

// AddRepository normalizes url and adds it to the list.
func (c *Client) AddRepository(ctx context.Context, url string) (Repository, error) {
	repo, err := c.repos.Add(ctx, url)
	if err != nil {
		return Repository{}, translateError(err)
	}
	return Repository{URL: repo.URL, Name: repo.DisplayName, AddedAt: repo.AddedAt}, nil
}

// RemoveRepository removes url from the list. Defaults are protected.
func (c *Client) RemoveRepository(ctx context.Context, url string) error {
	return translateError(c.repos.Remove(ctx, url))
}

// LastUsed returns the repository and branch of the most recent
// successful run, empty strings when there has been none.
func (c *Client) LastUsed(ctx context.Context) (url, branch string, err error) {
	cfg, err := c.loadConfig(ctx)
	if err != nil {
		return "", "", err
	}
	return cfg.LastUsedURL, cfg.LastUsedBranch, nil
}

// Status inspects the target directory. A working tree pointing at an
// unlisted repository is adopted into the saved list.
func (c *Client) Status(ctx context.Context) (Status, error) {
	report, err := c.status.Inspect(ctx, c.cfg.TargetPath)
	if err != nil {
		return Status{}, translateError(err)
	}

	if report.Checkout.Known {
		if err := c.repos.Adopt(ctx, report.Checkout.RepoURL); err != nil {
			c.cfg.Logger.Warn("could not adopt current origin", "error", err)
		}
	}

	return Status{
		Target:       report.Target,
		Directory:    string(report.Directory),
		Repository:   report.Checkout.RepoURL,
		Branch:       report.Checkout.Branch,
		Known:        report.Checkout.Known,
		BuildReady:   report.BuildReady,
		BuildProblem: report.BuildProblem,
	}, nil
}

// FetchBranches lists the remote's branches on the worker; the result
// arrives as a branches event.
func (c *Client) FetchBranches(ctx context.Context, url string) error {
	return translateError(c.runner.StartBranchFetch(ctx, url))
}

// ListBranches lists the remote's branches synchronously.
func (c *Client) ListBranches(ctx context.Context, url string) ([]string, error) {
	branches, err := c.branch.List(ctx, url)
	return branches, translateError(err)
}

// StartRun launches the checkout-and-build pipeline on the worker.
// Validation problems are returned synchronously; everything after
// that arrives as events.
func (c *Client) StartRun(ctx context.Context, req RunRequest) error {
	return translateError(c.runner.StartRun(ctx, orchestrate.Request{
		RepoURL: req.RepoURL,
		Branch:  req.Branch,
		Target:  c.cfg.TargetPath,
		Clean:   req.Clean,
	}))
}

// Close waits for the in-flight operation, closes the event channel
// and releases the history database.
func (c *Client) Close() error {
	c.runner.Close()
	if c.history != nil {
		return c.history.Close()
	}
	return nil
}

func (c *Client) loadConfig(ctx context.Context) (domain.Config, error) {
	cfg, err := c.store.Load(ctx)
	if err != nil {
		// A corrupt file was backed up and replaced with defaults;
		// the returned config is usable.
		if errors.Is(err, configstore.ErrCorruptConfig) {
			c.cfg.Logger.Warn("config load recovered", "error", err)
			return cfg, nil
		}
		return domain.Config{}, err
	}
	return cfg, nil
}

func (c *Client) translate() {
	for ev := range c.runner.Events() {
		c.events <- Event{
			Kind:     EventKind(ev.Kind),
			Message:  ev.Message,
			Branches: ev.Branches,
			Failure:  string(ev.Failure),
		}
	}
	close(c.events)
}

type historyAdapter struct {
	store *runlog.Store
}

func (h historyAdapter) Append(ctx context.Context, rec orchestrate.RunRecord) error {
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
