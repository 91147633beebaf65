package status

import (
	"context"
	"errors"
	"testing"

	"github.com/sbitxtools/branchctl/internal/domain"
)

type stubProber struct {
	state domain.DirectoryState
	err   error
}

func (s stubProber) Probe(_ context.Context, _ string) (domain.DirectoryState, error) {
	return s.state, s.err
}

type stubMeta struct {
	status domain.CheckoutStatus
	err    error
	calls  int
}

func (s *stubMeta) CurrentStatus(_ context.Context, _ string) (domain.CheckoutStatus, error) {
	s.calls++
	return s.status, s.err
}

type stubChecker struct{ err error }

func (s stubChecker) CheckPrerequisites(_ string) error { return s.err }

func TestInspectWorkingTree(t *testing.T) {
	meta := &stubMeta{status: domain.CheckoutStatus{Known: true, RepoURL: "https://github.com/octo/cat.git", Branch: "dev"}}
	svc := NewService(stubProber{state: domain.DirVersionControlled}, meta, stubChecker{})

	report, err := svc.Inspect(context.Background(), "/tmp/sbitx")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if report.Directory != domain.DirVersionControlled {
		t.Fatalf("unexpected directory state: %s", report.Directory)
	}
	if !report.Checkout.Known || report.Checkout.Branch != "dev" {
		t.Fatalf("checkout not projected: %+v", report.Checkout)
	}
	if !report.BuildReady || report.BuildProblem != "" {
		t.Fatalf("expected build-ready report, got %+v", report)
	}
}

func TestInspectAbsentDirectorySkipsMetadata(t *testing.T) {
	meta := &stubMeta{}
	svc := NewService(stubProber{state: domain.DirAbsent}, meta, stubChecker{})

	report, err := svc.Inspect(context.Background(), "/tmp/sbitx")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if report.Directory != domain.DirAbsent {
		t.Fatalf("unexpected directory state: %s", report.Directory)
	}
	if meta.calls != 0 {
		t.Fatalf("metadata must not be read for a missing directory")
	}
	if report.Checkout.Known {
		t.Fatalf("checkout cannot be known without a working tree")
	}
}

func TestInspectReportsBuildProblem(t *testing.T) {
	meta := &stubMeta{status: domain.CheckoutStatus{Known: true}}
	svc := NewService(stubProber{state: domain.DirVersionControlled}, meta, stubChecker{err: errors.New("build script not found")})

	report, err := svc.Inspect(context.Background(), "/tmp/sbitx")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if report.BuildReady {
		t.Fatalf("report must not be build-ready")
	}
	if report.BuildProblem == "" {
		t.Fatalf("build problem missing from report")
	}
}

func TestInspectProbeErrorPropagates(t *testing.T) {
	wantErr := errors.New("git executable not found")
	svc := NewService(stubProber{err: wantErr}, &stubMeta{}, stubChecker{})

	if _, err := svc.Inspect(context.Background(), "/tmp/sbitx"); !errors.Is(err, wantErr) {
		t.Fatalf("expected probe error, got %v", err)
	}
}
