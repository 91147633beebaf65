// Package status reports what the target directory currently holds:
// its classification, the checked-out repository and branch, and
// whether the build entry point is in place.
package status

import (
	"context"

	"github.com/sbitxtools/branchctl/internal/domain"
)

type Prober interface {
	Probe(ctx context.Context, path string) (domain.DirectoryState, error)
}

// MetaSource reads the checkout projection from local metadata.
type MetaSource interface {
	CurrentStatus(ctx context.Context, path string) (domain.CheckoutStatus, error)
}

// BuildChecker verifies the build prerequisites of a working tree.
type BuildChecker interface {
	CheckPrerequisites(path string) error
}

// Report is a point-in-time view of the target directory.
type Report struct {
	Target       string
	Directory    domain.DirectoryState
	Checkout     domain.CheckoutStatus
	BuildReady   bool
	BuildProblem string
}

type Service struct {
	prober  Prober
	meta    MetaSource
	checker BuildChecker
}

func NewService(prober Prober, meta MetaSource, checker BuildChecker) *Service {
	return &Service{prober: prober, meta: meta, checker: checker}
}

// Inspect probes target and, when it holds a working tree, fills in
// the checkout projection and build readiness.
func (s *Service) Inspect(ctx context.Context, target string) (Report, error) {
	report := Report{Target: target}

	dirState, err := s.prober.Probe(ctx, target)
	if err != nil {
		return Report{}, err
	}
	report.Directory = dirState

	if dirState != domain.DirVersionControlled {
		return report, nil
	}

	checkout, err := s.meta.CurrentStatus(ctx, target)
	if err != nil {
		return Report{}, err
	}
	report.Checkout = checkout

	if err := s.checker.CheckPrerequisites(target); err != nil {
		report.BuildProblem = err.Error()
	} else {
		report.BuildReady = true
	}
	return report, nil
}
