package production

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lkiparis/printforge-backend/pkg/logger"
	"github.com/lkiparis/printforge-backend/pkg/models"
	"github.com/lkiparis/printforge-backend/pkg/storage/fsrecord"
)

const batchIDLayout = "20060102-150405"

// errBadBatchID marks a batch id that is not a plain directory name. It maps
// to NotFound at the service boundary; callers never learn the storage
// layout from a traversal probe.
var errBadBatchID = errors.New("invalid batch id")

type fsRepository struct {
	dir  string
	logg *logger.Logger
}

// NewRepository constructs a batch repository rooted at dir, creating it if
// needed.
func NewRepository(dir string, logg *logger.Logger) (Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create production dir: %w", err)
	}
	return &fsRepository{dir: dir, logg: logg}, nil
}

func (r *fsRepository) CreateBatch(ctx context.Context, now time.Time) (string, error) {
	base := now.UTC().Format(batchIDLayout)

	id := base
	for attempt := 2; ; attempt++ {
		err := os.Mkdir(filepath.Join(r.dir, id), 0o755)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("create batch dir: %w", err)
		}
		id = fmt.Sprintf("%s-%d", base, attempt)
	}
}

func (r *fsRepository) MoveIn(ctx context.Context, srcDir string, item *models.Item, batchID string) error {
	dir, err := r.batchPath(batchID)
	if err != nil {
		return err
	}
	return fsrecord.MovePair(srcDir, dir, item)
}

func (r *fsRepository) WriteManifest(ctx context.Context, batchID, content string) error {
	dir, err := r.batchPath(batchID)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return fmt.Errorf("stage manifest: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, manifestFilename)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish manifest: %w", err)
	}
	return nil
}

func (r *fsRepository) ListBatches(ctx context.Context) ([]models.BatchSummary, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.BatchSummary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		items, err := r.readBatchItems(ctx, filepath.Join(r.dir, entry.Name()))
		if err != nil {
			r.logg.Warn(r.logg.WithBatchID(ctx, entry.Name()), "skipping unreadable batch")
			continue
		}
		done := 0
		for _, item := range items {
			if item.Status == models.ItemStatusDone {
				done++
			}
		}
		summaries = append(summaries, models.BatchSummary{
			ID:        entry.Name(),
			Status:    models.DeriveBatchStatus(items),
			ItemCount: len(items),
			DoneCount: done,
		})
	}

	// batch ids are time-derived, so lexicographic descending is newest first
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID > summaries[j].ID
	})
	return summaries, nil
}

func (r *fsRepository) GetBatch(ctx context.Context, batchID string) (*models.BatchDetail, error) {
	dir, err := r.batchPath(batchID)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fs.ErrNotExist
	}

	items, err := r.readBatchItems(ctx, dir)
	if err != nil {
		return nil, err
	}

	manifest, err := os.ReadFile(filepath.Join(dir, manifestFilename))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &models.BatchDetail{
		ID:       batchID,
		Status:   models.DeriveBatchStatus(items),
		Manifest: string(manifest),
		Items:    items,
	}, nil
}

func (r *fsRepository) GetItem(ctx context.Context, batchID string, itemID uuid.UUID) (*models.Item, error) {
	dir, err := r.batchPath(batchID)
	if err != nil {
		return nil, err
	}
	path, err := fsrecord.FindMetadata(dir, itemID)
	if err != nil {
		return nil, err
	}
	return fsrecord.ReadMetadata(path)
}

func (r *fsRepository) SaveItem(ctx context.Context, batchID string, item *models.Item) error {
	dir, err := r.batchPath(batchID)
	if err != nil {
		return err
	}
	if _, err := fsrecord.FindMetadata(dir, item.ID); err != nil {
		return err
	}
	return fsrecord.WriteMetadata(dir, item)
}

// readBatchItems loads every item record of a batch, skipping records that
// cannot be parsed. Records are returned in stored-name order, the order
// the operator tooling has always shown them in.
func (r *fsRepository) readBatchItems(ctx context.Context, dir string) ([]models.Item, error) {
	paths, err := fsrecord.ListMetadata(dir)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	items := make([]models.Item, 0, len(paths))
	for _, path := range paths {
		item, err := fsrecord.ReadMetadata(path)
		if err != nil {
			r.logg.Warn(r.logg.WithField(ctx, "record", path), "skipping unreadable batch record")
			continue
		}
		items = append(items, *item)
	}
	return items, nil
}

// batchPath confines a caller-supplied batch id to the production root. The
// id is an opaque token: anything that is not a plain directory name is
// rejected before it ever reaches the filesystem.
func (r *fsRepository) batchPath(batchID string) (string, error) {
	if batchID == "" || batchID == "." || batchID == ".." {
		return "", errBadBatchID
	}
	if strings.ContainsAny(batchID, `/\`) || filepath.Base(batchID) != batchID {
		return "", errBadBatchID
	}
	if strings.HasPrefix(batchID, ".") {
		return "", errBadBatchID
	}
	return filepath.Join(r.dir, batchID), nil
}
