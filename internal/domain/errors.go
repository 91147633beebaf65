package domain

import "errors"

var ErrRepoURLRequired = errors.New("repository url is required")
var ErrInvalidRepoURL = errors.New("invalid repository url")
var ErrBranchRequired = errors.New("branch name is required")
