package production

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lkiparis/printforge-backend/pkg/models"
)

// Repository defines the persistence surface for launched batches. The
// default implementation is the production/ directory tree; batch ids are
// opaque tokens confined to that root.
type Repository interface {
	// CreateBatch allocates a fresh batch directory named after the launch
	// time. When two launches land inside the same second the second id is
	// disambiguated with a numeric suffix rather than overwriting the first.
	CreateBatch(ctx context.Context, now time.Time) (string, error)
	// MoveIn relocates an item's record pair from srcDir into the batch.
	MoveIn(ctx context.Context, srcDir string, item *models.Item, batchID string) error
	WriteManifest(ctx context.Context, batchID, content string) error
	ListBatches(ctx context.Context) ([]models.BatchSummary, error)
	GetBatch(ctx context.Context, batchID string) (*models.BatchDetail, error)
	GetItem(ctx context.Context, batchID string, itemID uuid.UUID) (*models.Item, error)
	SaveItem(ctx context.Context, batchID string, item *models.Item) error
}

// LaunchResult reports what a launch actually did. ItemsMoved can be lower
// than the staged count when individual moves fail; the manifest only ever
// describes moved items.
type LaunchResult struct {
	BatchID    string `json:"batch_id"`
	ItemsMoved int    `json:"items_moved"`
	TotalUnits int    `json:"total_units"`
}

// Service owns the production half of the item lifecycle: launching the
// cart into a batch, reading batches back, and marking items produced.
type Service interface {
	Launch(ctx context.Context) (*LaunchResult, error)
	ListBatches(ctx context.Context) ([]models.BatchSummary, error)
	GetBatch(ctx context.Context, batchID string) (*models.BatchDetail, error)
	MarkDone(ctx context.Context, batchID string, itemID uuid.UUID) (*models.Item, error)
}
