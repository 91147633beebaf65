package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sbitxtools/branchctl/internal/app/orchestrate"
	statusapp "github.com/sbitxtools/branchctl/internal/app/status"
	"github.com/sbitxtools/branchctl/internal/domain"
	"github.com/sbitxtools/branchctl/internal/infra/runlog"
)

type repoOutput struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
	AddedAt string `json:"added_at,omitempty"`
}

type repoListOutput struct {
	Repositories   []repoOutput `json:"repositories"`
	LastUsedRepo   string       `json:"last_used_repo,omitempty"`
	LastUsedBranch string       `json:"last_used_branch,omitempty"`
}

func writeRepoList(cmd *cobra.Command, cfg domain.Config, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := repoListOutput{
			Repositories:   make([]repoOutput, 0, len(cfg.Repositories)),
			LastUsedRepo:   cfg.LastUsedURL,
			LastUsedBranch: cfg.LastUsedBranch,
		}
		for _, repo := range cfg.Repositories {
			entry := repoOutput{
				URL:     repo.URL,
				Name:    repo.DisplayName,
				Default: cfg.IsDefaultURL(repo.URL),
			}
			if !repo.AddedAt.IsZero() {
				entry.AddedAt = repo.AddedAt.UTC().Format(time.RFC3339)
			}
			payload.Repositories = append(payload.Repositories, entry)
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	ui := newRenderer(out, asJSON)
	if len(cfg.Repositories) == 0 {
		_, err := fmt.Fprintln(out, ui.dim("(no repositories)"))
		return err
	}
	for _, repo := range cfg.Repositories {
		marker := " "
		if repo.URL == cfg.LastUsedURL {
			marker = ui.ok("*")
		}
		suffix := ""
		if cfg.IsDefaultURL(repo.URL) {
			suffix = " " + ui.dim("(default)")
		}
		if _, err := fmt.Fprintf(out, "%s %s %s%s\n", marker, ui.key(repo.DisplayName), repo.URL, suffix); err != nil {
			return err
		}
	}
	if cfg.LastUsedURL != "" && cfg.LastUsedBranch != "" {
		_, err := fmt.Fprintf(out, "\nLast used: %s @ %s\n", domain.ShortName(cfg.LastUsedURL), ui.key(cfg.LastUsedBranch))
		return err
	}
	return nil
}

func writeRepoAdded(cmd *cobra.Command, repo domain.Repository, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := repoOutput{URL: repo.URL, Name: repo.DisplayName}
		if !repo.AddedAt.IsZero() {
			payload.AddedAt = repo.AddedAt.UTC().Format(time.RFC3339)
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}
	ui := newRenderer(out, asJSON)
	_, err := fmt.Fprintf(out, "%s %s\n", ui.ok("Added"), repo.URL)
	return err
}

func writeRepoRemoved(cmd *cobra.Command, raw string, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := struct {
			Removed string `json:"removed"`
		}{Removed: raw}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}
	ui := newRenderer(out, asJSON)
	_, err := fmt.Fprintf(out, "%s %s\n", ui.ok("Removed"), raw)
	return err
}

func writeBranches(cmd *cobra.Command, url string, branches []string, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := struct {
			URL      string   `json:"url"`
			Branches []string `json:"branches"`
		}{URL: url, Branches: branches}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	ui := newRenderer(out, asJSON)
	if len(branches) == 0 {
		_, err := fmt.Fprintln(out, ui.dim("(no branches)"))
		return err
	}
	for _, branch := range branches {
		if _, err := fmt.Fprintln(out, branch); err != nil {
			return err
		}
	}
	return nil
}

func writeStatusReport(cmd *cobra.Command, report statusapp.Report, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := struct {
			Target       string `json:"target"`
			Directory    string `json:"directory"`
			Repository   string `json:"repository,omitempty"`
			Branch       string `json:"branch,omitempty"`
			BuildReady   bool   `json:"build_ready"`
			BuildProblem string `json:"build_problem,omitempty"`
		}{
			Target:       report.Target,
			Directory:    string(report.Directory),
			BuildReady:   report.BuildReady,
			BuildProblem: report.BuildProblem,
		}
		if report.Checkout.Known {
			payload.Repository = report.Checkout.RepoURL
			payload.Branch = report.Checkout.Branch
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	ui := newRenderer(out, asJSON)
	if err := writeKV(out, ui, "Target", report.Target); err != nil {
		return err
	}
	if err := writeKV(out, ui, "Directory", string(report.Directory)); err != nil {
		return err
	}
	if report.Checkout.Known {
		checkout := fmt.Sprintf("%s @ %s", domain.ShortName(report.Checkout.RepoURL), report.Checkout.Branch)
		if err := writeKV(out, ui, "Checkout", checkout); err != nil {
			return err
		}
	} else {
		if err := writeKV(out, ui, "Checkout", ui.dim("(unknown)")); err != nil {
			return err
		}
	}
	if report.BuildReady {
		return writeKV(out, ui, "Build", ui.ok("ready"))
	}
	if report.BuildProblem != "" {
		return writeKV(out, ui, "Build", ui.warn(report.BuildProblem))
	}
	return writeKV(out, ui, "Build", ui.dim("n/a"))
}

func writeRunResult(cmd *cobra.Command, res orchestrate.Result, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		payload := struct {
			RunID      string `json:"run_id,omitempty"`
			State      string `json:"state"`
			Message    string `json:"message"`
			Repository string `json:"repository,omitempty"`
			Branch     string `json:"branch,omitempty"`
			StartedAt  string `json:"started_at"`
			FinishedAt string `json:"finished_at"`
		}{
			RunID:      res.RunID,
			State:      string(res.State),
			Message:    res.Message,
			StartedAt:  res.StartedAt.UTC().Format(time.RFC3339),
			FinishedAt: res.FinishedAt.UTC().Format(time.RFC3339),
		}
		if res.Status.Known {
			payload.Repository = res.Status.RepoURL
			payload.Branch = res.Status.Branch
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	ui := newRenderer(out, asJSON)
	if res.Status.Known {
		_, err := fmt.Fprintf(out, "%s %s @ %s\n", ui.ok("Done:"), domain.ShortName(res.Status.RepoURL), ui.key(res.Status.Branch))
		return err
	}
	_, err := fmt.Fprintln(out, ui.ok("Done"))
	return err
}

func writeHistory(cmd *cobra.Command, records []runlog.Record, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		type historyEntry struct {
			ID         string `json:"id"`
			Repository string `json:"repository"`
			Branch     string `json:"branch"`
			State      string `json:"state"`
			Failure    string `json:"failure,omitempty"`
			Message    string `json:"message"`
			StartedAt  string `json:"started_at"`
			FinishedAt string `json:"finished_at"`
		}
		payload := make([]historyEntry, 0, len(records))
		for _, rec := range records {
			payload = append(payload, historyEntry{
				ID:         rec.ID,
				Repository: rec.RepoURL,
				Branch:     rec.Branch,
				State:      string(rec.State),
				Failure:    string(rec.Failure),
				Message:    rec.Message,
				StartedAt:  rec.StartedAt.UTC().Format(time.RFC3339),
				FinishedAt: rec.FinishedAt.UTC().Format(time.RFC3339),
			})
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	ui := newRenderer(out, asJSON)
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, ui.dim("(no runs)"))
		return err
	}
	for _, rec := range records {
		state := ui.ok(string(rec.State))
		if rec.State != domain.RunSucceeded {
			state = ui.err(string(rec.State))
		}
		when := ui.dim(rec.StartedAt.Local().Format("2006-01-02 15:04"))
		line := fmt.Sprintf("%s  %s  %s @ %s", when, state, domain.ShortName(rec.RepoURL), rec.Branch)
		if rec.Failure != domain.FailNone {
			line += "  " + ui.warn(string(rec.Failure))
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func writeKV(out io.Writer, ui renderer, key, value string) error {
	_, err := fmt.Fprintf(out, "%s: %s\n", ui.key(key), value)
	return err
}
