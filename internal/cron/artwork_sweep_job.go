package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/printflowhq/printflow-backend/pkg/logger"
)

// defaultSweepMinAge is used when the caller does not supply a minimum file
// age. Any positive grace period works; it only needs to outlast an upload's
// store-then-commit window.
const defaultSweepMinAge = time.Hour

type artworkFiles interface {
	Files(ctx context.Context, olderThan time.Time) ([]string, error)
	Delete(ctx context.Context, path string)
}

type artworkRefs interface {
	ListArtworkPaths(ctx context.Context) ([]string, error)
}

// ArtworkSweepJob deletes artwork files no row references anymore. Orphans
// appear when a process dies between a commit and its post-commit file
// cleanup.
type ArtworkSweepJob struct {
	store  artworkFiles
	refs   artworkRefs
	minAge time.Duration
	logg   *logger.Logger
}

// NewArtworkSweepJob builds the orphaned artwork sweep. minAge is the grace
// period for freshly stored files; zero or negative falls back to
// defaultSweepMinAge.
func NewArtworkSweepJob(store artworkFiles, refs artworkRefs, minAge time.Duration, logg *logger.Logger) (*ArtworkSweepJob, error) {
	if store == nil {
		return nil, fmt.Errorf("artwork store required")
	}
	if refs == nil {
		return nil, fmt.Errorf("artwork refs repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if minAge <= 0 {
		minAge = defaultSweepMinAge
	}
	return &ArtworkSweepJob{store: store, refs: refs, minAge: minAge, logg: logg}, nil
}

func (j *ArtworkSweepJob) Name() string {
	return "artwork_sweep"
}

// Run only considers files older than the grace period. An upload writes its
// file before the owning transaction commits, so a file can sit on disk
// unreferenced for the length of that window; the age cutoff keeps such
// in-flight uploads out of the candidate set entirely.
func (j *ArtworkSweepJob) Run(ctx context.Context) error {
	files, err := j.store.Files(ctx, time.Now().Add(-j.minAge))
	if err != nil {
		return fmt.Errorf("list stored artwork: %w", err)
	}

	referenced, err := j.refs.ListArtworkPaths(ctx)
	if err != nil {
		return fmt.Errorf("list referenced artwork: %w", err)
	}
	keep := make(map[string]struct{}, len(referenced))
	for _, path := range referenced {
		keep[path] = struct{}{}
	}

	swept := 0
	for _, path := range files {
		if _, ok := keep[path]; ok {
			continue
		}
		j.store.Delete(ctx, path)
		swept++
	}
	if swept > 0 {
		j.logg.Info(j.logg.WithField(ctx, "swept", swept), "orphaned artwork removed")
	}
	return nil
}
