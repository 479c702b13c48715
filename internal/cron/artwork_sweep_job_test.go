package cron

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/printflowhq/printflow-backend/pkg/logger"
)

type stubArtworkFiles struct {
	files     []string
	filesErr  error
	deleted   []string
	olderThan time.Time
}

func (s *stubArtworkFiles) Files(ctx context.Context, olderThan time.Time) ([]string, error) {
	s.olderThan = olderThan
	return s.files, s.filesErr
}

func (s *stubArtworkFiles) Delete(ctx context.Context, path string) {
	s.deleted = append(s.deleted, path)
}

type stubArtworkRefs struct {
	paths []string
	err   error
}

func (s *stubArtworkRefs) ListArtworkPaths(ctx context.Context) ([]string, error) {
	return s.paths, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestArtworkSweep_RemovesOnlyOrphans(t *testing.T) {
	store := &stubArtworkFiles{files: []string{
		"/uploads/artes/arte_a.png",
		"/uploads/artes/arte_b.png",
		"/uploads/artes/arte_c.webp",
	}}
	refs := &stubArtworkRefs{paths: []string{"/uploads/artes/arte_b.png"}}

	job, err := NewArtworkSweepJob(store, refs, time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewArtworkSweepJob returned error: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	sort.Strings(store.deleted)
	want := []string{"/uploads/artes/arte_a.png", "/uploads/artes/arte_c.webp"}
	if len(store.deleted) != len(want) {
		t.Fatalf("expected %v deleted, got %v", want, store.deleted)
	}
	for i := range want {
		if store.deleted[i] != want[i] {
			t.Fatalf("expected %v deleted, got %v", want, store.deleted)
		}
	}
}

func TestArtworkSweep_GraceWindowExcludesFreshFiles(t *testing.T) {
	store := &stubArtworkFiles{}
	refs := &stubArtworkRefs{}

	job, err := NewArtworkSweepJob(store, refs, 30*time.Minute, testLogger())
	if err != nil {
		t.Fatalf("NewArtworkSweepJob returned error: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	latest := time.Now().Add(-30 * time.Minute)
	if store.olderThan.After(latest) {
		t.Fatalf("cutoff %v falls inside the grace window, want at or before %v", store.olderThan, latest)
	}
}

func TestArtworkSweep_DefaultsMinAge(t *testing.T) {
	store := &stubArtworkFiles{}
	refs := &stubArtworkRefs{}

	job, err := NewArtworkSweepJob(store, refs, 0, testLogger())
	if err != nil {
		t.Fatalf("NewArtworkSweepJob returned error: %v", err)
	}
	if job.minAge != defaultSweepMinAge {
		t.Fatalf("expected default min age %v, got %v", defaultSweepMinAge, job.minAge)
	}
}

func TestArtworkSweep_NothingToDo(t *testing.T) {
	store := &stubArtworkFiles{files: []string{"/uploads/artes/arte_a.png"}}
	refs := &stubArtworkRefs{paths: []string{"/uploads/artes/arte_a.png"}}

	job, err := NewArtworkSweepJob(store, refs, time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewArtworkSweepJob returned error: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("expected no deletions, got %v", store.deleted)
	}
}

func TestArtworkSweep_RefsErrorAborts(t *testing.T) {
	store := &stubArtworkFiles{files: []string{"/uploads/artes/arte_a.png"}}
	refs := &stubArtworkRefs{err: errors.New("db down")}

	job, err := NewArtworkSweepJob(store, refs, time.Hour, testLogger())
	if err != nil {
		t.Fatalf("NewArtworkSweepJob returned error: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error when references cannot be listed")
	}
	if len(store.deleted) != 0 {
		t.Fatalf("expected no deletions on error, got %v", store.deleted)
	}
}
