package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubLocker struct {
	deny     bool
	acquires []string
	releases []string
}

func (s *stubLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	s.acquires = append(s.acquires, name)
	return !s.deny, nil
}

func (s *stubLocker) Release(ctx context.Context, name string) error {
	s.releases = append(s.releases, name)
	return nil
}

type stubJob struct {
	name string
	err  error
	runs int
}

func (s *stubJob) Name() string { return s.name }

func (s *stubJob) Run(ctx context.Context) error {
	s.runs++
	return s.err
}

func newCronService(t *testing.T, locker Locker) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Locker:   locker,
		Interval: time.Hour,
		LockTTL:  time.Hour,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestProcess_RunsJobsAndReleasesLock(t *testing.T) {
	locker := &stubLocker{}
	svc := newCronService(t, locker)

	job := &stubJob{name: "artwork_sweep"}
	svc.Register(job)

	if err := svc.process(context.Background()); err != nil {
		t.Fatalf("process returned error: %v", err)
	}
	if job.runs != 1 {
		t.Fatalf("expected 1 run, got %d", job.runs)
	}
	if len(locker.releases) != 1 || locker.releases[0] != "artwork_sweep" {
		t.Fatalf("expected lock released, got %v", locker.releases)
	}
}

func TestProcess_SkipsWhenLockHeldElsewhere(t *testing.T) {
	locker := &stubLocker{deny: true}
	svc := newCronService(t, locker)

	job := &stubJob{name: "artwork_sweep"}
	svc.Register(job)

	if err := svc.process(context.Background()); err != nil {
		t.Fatalf("process returned error: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job skipped, got %d runs", job.runs)
	}
	if len(locker.releases) != 0 {
		t.Fatalf("expected no release for unheld lock, got %v", locker.releases)
	}
}

func TestProcess_CombinesJobErrors(t *testing.T) {
	svc := newCronService(t, &stubLocker{})

	ok := &stubJob{name: "ok"}
	bad := &stubJob{name: "bad", err: errors.New("boom")}
	svc.Register(ok)
	svc.Register(bad)

	err := svc.process(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if ok.runs != 1 || bad.runs != 1 {
		t.Fatalf("expected both jobs to run, got %d and %d", ok.runs, bad.runs)
	}
}
