package cart

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/lkiparis/printforge-backend/pkg/logger"
	"github.com/lkiparis/printforge-backend/pkg/models"
	"github.com/lkiparis/printforge-backend/pkg/storage/fsrecord"
)

// fsRepository stores staged items as payload+metadata pairs in a single
// directory.
type fsRepository struct {
	dir  string
	logg *logger.Logger
}

// NewRepository constructs a cart repository rooted at dir, creating it if
// needed.
func NewRepository(dir string, logg *logger.Logger) (Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cart dir: %w", err)
	}
	return &fsRepository{dir: dir, logg: logg}, nil
}

func (r *fsRepository) Dir() string {
	return r.dir
}

// Add persists the payload first and the metadata record second, so a
// concurrent List never observes a record without its payload. The payload
// is cleaned up when the metadata write fails.
func (r *fsRepository) Add(ctx context.Context, item *models.Item, payload io.Reader) error {
	if err := fsrecord.WritePayload(r.dir, item.PayloadRef, payload); err != nil {
		return err
	}
	if err := fsrecord.WriteMetadata(r.dir, item); err != nil {
		if rmErr := os.Remove(r.payloadPath(item)); rmErr != nil && !os.IsNotExist(rmErr) {
			r.logg.Warn(r.logg.WithItemID(ctx, item.ID.String()), "orphan payload left after failed add")
		}
		return err
	}
	return nil
}

// List returns every staged item, newest first. Records that cannot be read
// or parsed are logged and skipped; a torn concurrent write must not fail
// the whole listing.
func (r *fsRepository) List(ctx context.Context) ([]models.Item, error) {
	paths, err := fsrecord.ListMetadata(r.dir)
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(paths))
	for _, path := range paths {
		item, err := fsrecord.ReadMetadata(path)
		if err != nil {
			r.logg.Warn(r.logg.WithField(ctx, "record", path), "skipping unreadable cart record")
			continue
		}
		items = append(items, *item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.After(items[j].AddedAt)
		}
		return items[i].ID.String() > items[j].ID.String()
	})
	return items, nil
}

func (r *fsRepository) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	path, err := fsrecord.FindMetadata(r.dir, id)
	if err != nil {
		return nil, err
	}
	return fsrecord.ReadMetadata(path)
}

func (r *fsRepository) Save(ctx context.Context, item *models.Item) error {
	if _, err := fsrecord.FindMetadata(r.dir, item.ID); err != nil {
		return err
	}
	return fsrecord.WriteMetadata(r.dir, item)
}

func (r *fsRepository) Remove(ctx context.Context, item *models.Item) error {
	return fsrecord.RemovePair(r.dir, item)
}

func (r *fsRepository) payloadPath(item *models.Item) string {
	return filepath.Join(r.dir, item.PayloadRef)
}
