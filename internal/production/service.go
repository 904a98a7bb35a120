package production

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/lkiparis/printforge-backend/pkg/errors"
	"github.com/lkiparis/printforge-backend/pkg/locks"
	"github.com/lkiparis/printforge-backend/pkg/logger"
	"github.com/lkiparis/printforge-backend/pkg/metrics"
	"github.com/lkiparis/printforge-backend/pkg/models"
)

// cartSource is the slice of the cart the orchestrator needs: a snapshot of
// staged items and the directory their record pairs live in.
type cartSource interface {
	List(ctx context.Context) ([]models.Item, error)
	Dir() string
}

type service struct {
	repo    Repository
	cart    cartSource
	logg    *logger.Logger
	metrics *metrics.ProductionMetrics
	locks   *locks.KeyedMutex
	now     func() time.Time

	// launchMu keeps Launch from racing itself: two concurrent launches
	// could otherwise claim the same batch id or double-move an item.
	launchMu sync.Mutex
}

// NewService builds the production service with the required dependencies.
func NewService(repo Repository, cart cartSource, logg *logger.Logger, prodMetrics *metrics.ProductionMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("production repository required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		cart:    cart,
		logg:    logg,
		metrics: prodMetrics,
		locks:   locks.NewKeyedMutex(),
		now:     time.Now,
	}, nil
}

// Launch drains the cart snapshot into a fresh batch and writes its
// manifest. The move is best-effort per item: a failed move leaves that item
// in the cart, already-moved items stay in the batch, and the manifest
// describes only what actually moved. Items staged after the snapshot is
// taken are simply not part of this launch.
func (s *service) Launch(ctx context.Context) (*LaunchResult, error) {
	s.launchMu.Lock()
	defer s.launchMu.Unlock()

	start := s.now()

	snapshot, err := s.cart.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "snapshot cart")
	}
	if len(snapshot) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "no items staged for production")
	}

	batchID, err := s.repo.CreateBatch(ctx, start)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create batch")
	}
	ctx = s.logg.WithBatchID(ctx, batchID)

	moved := make([]models.Item, 0, len(snapshot))
	var moveErrs error
	for i := range snapshot {
		item := snapshot[i]
		if err := s.repo.MoveIn(ctx, s.cart.Dir(), &item, batchID); err != nil {
			moveErrs = multierr.Append(moveErrs, fmt.Errorf("move item %s: %w", item.ID, err))
			continue
		}
		moved = append(moved, item)
	}

	if len(moved) == 0 {
		s.metrics.IncLaunchFailure()
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, moveErrs, "no items could be moved into the batch")
	}

	manifest, total := buildManifest(batchID, start, moved)
	if err := s.repo.WriteManifest(ctx, batchID, manifest); err != nil {
		// the items moved; surface the failure rather than pretending the
		// batch has a manifest it does not
		s.metrics.IncLaunchFailure()
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write manifest")
	}

	s.metrics.ObserveLaunchDuration(s.now().Sub(start))
	s.metrics.AddItemsLaunched(len(moved))

	if moveErrs != nil {
		s.metrics.IncLaunchFailure()
		s.logg.Error(s.logg.WithField(ctx, "items_moved", len(moved)), "launch moved only part of the cart", moveErrs)
	} else {
		s.metrics.IncLaunchSuccess()
		s.logg.Info(s.logg.WithField(ctx, "items_moved", len(moved)), "production launched")
	}

	return &LaunchResult{
		BatchID:    batchID,
		ItemsMoved: len(moved),
		TotalUnits: total,
	}, nil
}

func (s *service) ListBatches(ctx context.Context) ([]models.BatchSummary, error) {
	summaries, err := s.repo.ListBatches(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list batches")
	}
	return summaries, nil
}

func (s *service) GetBatch(ctx context.Context, batchID string) (*models.BatchDetail, error) {
	detail, err := s.repo.GetBatch(ctx, batchID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, errBadBatchID) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "batch not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load batch")
	}
	return detail, nil
}

// MarkDone flips one batch item to its terminal state. Marking an already
// produced item is an explicit error, not a silent no-op: the operator is
// told the work was already recorded.
func (s *service) MarkDone(ctx context.Context, batchID string, itemID uuid.UUID) (*models.Item, error) {
	unlock := s.locks.Lock(batchID + "/" + itemID.String())
	defer unlock()

	item, err := s.repo.GetItem(ctx, batchID, itemID)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, errBadBatchID) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "batch item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load batch item")
	}

	if item.Status == models.ItemStatusDone {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyProduced, "item already produced").
			WithDetails(map[string]any{"produced_at": item.ProducedAt})
	}

	producedAt := s.now().UTC()
	item.Status = models.ItemStatusDone
	item.ProducedAt = &producedAt

	if err := s.repo.SaveItem(ctx, batchID, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "save batch item")
	}

	s.metrics.IncItemsProduced()
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"batch_id": batchID, "item_id": itemID.String()}), "item produced")
	return item, nil
}
