package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lkiparis/printforge-backend/pkg/types"
)

type ItemStatus string

const (
	ItemStatusPending ItemStatus = "pending"
	ItemStatusDone    ItemStatus = "done"
)

// TechFDM is the filament-extrusion technology; the only one whose infill
// setting is meaningful for display.
const TechFDM = "FDM"

// Item is a single fabrication job record: an uploaded model payload plus
// its staging metadata. It lives in exactly one place at a time, the cart or
// a production batch; the metadata record decides which.
type Item struct {
	ID         uuid.UUID     `json:"id"`
	Filename   string        `json:"filename"`
	PayloadRef string        `json:"payload_ref"`
	Config     types.JSONMap `json:"config"`
	AddedAt    time.Time     `json:"added_at"`
	Quantity   int           `json:"quantity"`
	Status     ItemStatus    `json:"status"`
	ProducedAt *time.Time    `json:"produced_at,omitempty"`
}

// Technology reads the fabrication technology out of the opaque config.
func (i Item) Technology() string {
	return i.Config.String("tech", "N/A")
}

// Material reads the material out of the opaque config.
func (i Item) Material() string {
	return i.Config.String("material", "N/A")
}

// Infill reads the infill percentage out of the opaque config.
func (i Item) Infill() int {
	return i.Config.Int("infill", 100)
}

// IsFDM reports whether the item uses the filament-extrusion technology.
func (i Item) IsFDM() bool {
	return i.Technology() == TechFDM
}
