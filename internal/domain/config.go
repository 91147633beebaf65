package domain

import "time"

// DefaultRepoURL is seeded into fresh configurations and can never be
// removed through the repository list.
const DefaultRepoURL = "https://github.com/drexjj/sbitx.git"

// Config is the persisted application state: the repository list plus
// default/last-used tracking. Saved as an idempotent full overwrite.
type Config struct {
	Repositories   []Repository `json:"repositories"`
	DefaultURLs    []string     `json:"default_repositories"`
	LastUsedURL    string       `json:"last_used_repo"`
	LastUsedBranch string       `json:"last_used_branch"`
}

// NewDefaultConfig builds the configuration written on first use and
// after corruption recovery.
func NewDefaultConfig(now time.Time) Config {
	repo, err := NewRepository(DefaultRepoURL, now)
	cfg := Config{DefaultURLs: []string{DefaultRepoURL}}
	if err == nil {
		cfg.Repositories = []Repository{repo}
	}
	return cfg
}

// IsDefaultURL reports whether url is one of the protected defaults.
func (c Config) IsDefaultURL(url string) bool {
	for _, d := range c.DefaultURLs {
		if d == url {
			return true
		}
	}
	return false
}

// FindRepository returns the record with the given canonical URL.
func (c Config) FindRepository(url string) (Repository, bool) {
	for _, r := range c.Repositories {
		if r.URL == url {
			return r, true
		}
	}
	return Repository{}, false
}
