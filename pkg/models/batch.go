package models

// BatchStatus is derived from the batch's item records on every read. It is
// never stored.
type BatchStatus string

const (
	BatchStatusEmpty      BatchStatus = "empty"
	BatchStatusPending    BatchStatus = "pending"
	BatchStatusInProgress BatchStatus = "in_progress"
	BatchStatusCompleted  BatchStatus = "completed"
)

// DeriveBatchStatus computes the aggregate status from current item states.
func DeriveBatchStatus(items []Item) BatchStatus {
	if len(items) == 0 {
		return BatchStatusEmpty
	}
	done := 0
	for _, item := range items {
		if item.Status == ItemStatusDone {
			done++
		}
	}
	switch done {
	case 0:
		return BatchStatusPending
	case len(items):
		return BatchStatusCompleted
	default:
		return BatchStatusInProgress
	}
}

// BatchSummary is one row of the batch listing.
type BatchSummary struct {
	ID        string      `json:"id"`
	Status    BatchStatus `json:"status"`
	ItemCount int         `json:"item_count"`
	DoneCount int         `json:"done_count"`
}

// BatchDetail pairs the manifest captured at launch time with the live item
// list. The manifest text never changes after launch; the items do.
type BatchDetail struct {
	ID       string      `json:"id"`
	Status   BatchStatus `json:"status"`
	Manifest string      `json:"manifest"`
	Items    []Item      `json:"items"`
}
