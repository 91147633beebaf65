package domain

import (
	"regexp"
	"strings"
	"time"
)

// Repository identifies a checkable-out source. URL is always the
// canonical normalized form and acts as the record's identity key.
// Records are replaced, never mutated in place.
type Repository struct {
	URL         string    `json:"url"`
	DisplayName string    `json:"display_name"`
	AddedAt     time.Time `json:"added_at"`
}

var (
	httpsPattern = regexp.MustCompile(`^https://github\.com/([\w-]+/[\w-]+?)(\.git)?$`)
	sshPattern   = regexp.MustCompile(`^git@github\.com:([\w-]+/[\w-]+?)(\.git)?$`)
	shortPattern = regexp.MustCompile(`^(github\.com/)?([\w-]+/[\w-]+)$`)
)

// NormalizeURL validates a raw repository URL and returns its canonical
// form. Accepted shapes: "owner/repo", "github.com/owner/repo", a full
// HTTPS URL, or an SSH-style URL. HTTPS and short forms canonicalize to
// "https://github.com/owner/repo.git"; SSH input stays in SSH form with
// ".git" appended. Anything else fails with ErrInvalidRepoURL.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrRepoURLRequired
	}

	if m := httpsPattern.FindStringSubmatch(raw); m != nil {
		return "https://github.com/" + m[1] + ".git", nil
	}

	if sshPattern.MatchString(raw) {
		if strings.HasSuffix(raw, ".git") {
			return raw, nil
		}
		return raw + ".git", nil
	}

	if m := shortPattern.FindStringSubmatch(raw); m != nil {
		return "https://github.com/" + m[2] + ".git", nil
	}

	return "", ErrInvalidRepoURL
}

// ShortName extracts the "owner/repo" form from a canonical URL,
// falling back to the input when it does not match either form.
func ShortName(url string) string {
	if m := httpsPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := sshPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return url
}

// NewRepository builds a record from raw user input, normalizing the
// URL and deriving the display name.
func NewRepository(raw string, addedAt time.Time) (Repository, error) {
	url, err := NormalizeURL(raw)
	if err != nil {
		return Repository{}, err
	}
	return Repository{
		URL:         url,
		DisplayName: ShortName(url),
		AddedAt:     addedAt.UTC(),
	}, nil
}
