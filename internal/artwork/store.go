package artwork

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/printflowhq/printflow-backend/pkg/config"
	pkgerrors "github.com/printflowhq/printflow-backend/pkg/errors"
	"github.com/printflowhq/printflow-backend/pkg/logger"
)

var allowedTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// Store persists artwork images for order line items. Callers hold only the
// returned public path; bytes never flow through the order engine.
type Store interface {
	Store(ctx context.Context, r io.Reader, orderID, productID uuid.UUID) (string, error)
	Delete(ctx context.Context, path string)
	Files(ctx context.Context, olderThan time.Time) ([]string, error)
}

type diskStore struct {
	dir          string
	publicPrefix string
	maxSize      int64
	log          *logger.Logger
}

// NewDiskStore builds a local-disk artwork store rooted at cfg.Dir.
func NewDiskStore(cfg config.ArtworkConfig, log *logger.Logger) (Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("artwork directory required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artwork directory: %w", err)
	}
	return &diskStore{
		dir:          cfg.Dir,
		publicPrefix: strings.TrimSuffix(cfg.PublicPrefix, "/"),
		maxSize:      cfg.MaxSizeBytes,
		log:          log,
	}, nil
}

// Store validates size and format, then writes the image under a unique name
// tied to the order and product. The returned path is the public URL path,
// not the filesystem location.
func (s *diskStore) Store(ctx context.Context, r io.Reader, orderID, productID uuid.UUID) (string, error) {
	content, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read artwork upload")
	}
	if int64(len(content)) > s.maxSize {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "artwork must be at most %d bytes", s.maxSize)
	}

	mtype := mimetype.Detect(content)
	if _, ok := allowedTypes[mtype.String()]; !ok {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported artwork format %s", mtype.String())
	}

	name := fmt.Sprintf("arte_pedido_%s_produto_%s_%s%s",
		orderID, productID, strings.ReplaceAll(uuid.NewString(), "-", ""), mtype.Extension())

	if err := os.WriteFile(filepath.Join(s.dir, name), content, 0o644); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write artwork file")
	}
	return s.publicPrefix + "/" + name, nil
}

// Delete removes a stored file. Only the base name of the given path is used,
// so a crafted path can never reach outside the artwork directory. Failures
// are logged and swallowed; a leftover file is cheaper than a failed request.
func (s *diskStore) Delete(ctx context.Context, path string) {
	if path == "" {
		return
	}
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		if s.log != nil {
			s.log.Error(ctx, "delete artwork file", err)
		}
	}
}

// Files lists the public paths of stored artwork files last modified before
// olderThan. The orphan sweep passes a cutoff in the past so a file written
// moments ago, whose database reference may not be committed yet, is never
// reported as a deletion candidate.
func (s *diskStore) Files(ctx context.Context, olderThan time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read artwork directory: %w", err)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(olderThan) {
			continue
		}
		paths = append(paths, s.publicPrefix+"/"+entry.Name())
	}
	return paths, nil
}
