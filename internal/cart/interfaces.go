package cart

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/lkiparis/printforge-backend/pkg/models"
	"github.com/lkiparis/printforge-backend/pkg/types"
)

// Repository defines the persistence surface required by the cart service.
// The default implementation is the cart/ directory of paired records; the
// interface keeps the substrate swappable without touching lifecycle logic.
type Repository interface {
	Add(ctx context.Context, item *models.Item, payload io.Reader) error
	List(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Save(ctx context.Context, item *models.Item) error
	Remove(ctx context.Context, item *models.Item) error
	// Dir exposes the staging directory so the launch orchestrator can move
	// record pairs out of it.
	Dir() string
}

// AddItemInput carries a new staging request into the service.
type AddItemInput struct {
	Filename string
	Payload  io.Reader
	Config   types.JSONMap
	Quantity int
}

// Service owns the cart half of the item lifecycle.
type Service interface {
	Add(ctx context.Context, input AddItemInput) (*models.Item, error)
	List(ctx context.Context) ([]models.Item, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
