package repolist

import "errors"

var (
	// ErrRepoExists reports an add of a URL already on the list.
	ErrRepoExists = errors.New("repository is already in the list")

	// ErrRepoNotFound reports a remove of a URL that is not listed.
	ErrRepoNotFound = errors.New("repository is not in the list")

	// ErrDefaultRepoProtected reports a remove of a seeded default.
	ErrDefaultRepoProtected = errors.New("default repository cannot be removed")
)
