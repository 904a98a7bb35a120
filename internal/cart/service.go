package cart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/lkiparis/printforge-backend/pkg/errors"
	"github.com/lkiparis/printforge-backend/pkg/locks"
	"github.com/lkiparis/printforge-backend/pkg/models"
	"github.com/lkiparis/printforge-backend/pkg/storage/fsrecord"
)

type service struct {
	repo  Repository
	locks *locks.KeyedMutex
	now   func() time.Time
}

// NewService builds the cart service over the given repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{
		repo:  repo,
		locks: locks.NewKeyedMutex(),
		now:   time.Now,
	}, nil
}

func (s *service) Add(ctx context.Context, input AddItemInput) (*models.Item, error) {
	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}
	if input.Payload == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payload is required")
	}

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	config := input.Config.Clone()
	// infill only means something for filament printing; other technologies
	// store a solid 100 so every record reads the same way
	if config != nil && !strings.EqualFold(config.String("tech", models.TechFDM), models.TechFDM) {
		config["infill"] = 100
	}

	id := uuid.New()
	item := &models.Item{
		ID:         id,
		Filename:   filename,
		PayloadRef: fsrecord.PayloadFilename(id, filename),
		Config:     config,
		AddedAt:    s.now().UTC(),
		Quantity:   quantity,
		Status:     models.ItemStatusPending,
	}

	if err := s.repo.Add(ctx, item, input.Payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "stage item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list cart")
	}
	return items, nil
}

func (s *service) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.Item, error) {
	if quantity < 1 {
		quantity = 1
	}

	unlock := s.locks.Lock(id.String())
	defer unlock()

	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load item")
	}

	item.Quantity = quantity
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "save item")
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := s.locks.Lock(id.String())
	defer unlock()

	item, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load item")
	}

	if err := s.repo.Remove(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "remove item")
	}
	return nil
}
