package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/lkiparis/printforge-backend/pkg/models"
)

const manifestFilename = "manifest.txt"

// buildManifest renders the launch snapshot: a header, one numbered block
// per moved item in launch order, and the grand total of units. It is
// written once at launch time and never regenerated from live state.
// Returns the text and the total quantity.
func buildManifest(batchID string, createdAt time.Time, items []models.Item) (string, int) {
	var b strings.Builder

	fmt.Fprintf(&b, "PRODUCTION BATCH %s\n", batchID)
	fmt.Fprintf(&b, "Created: %s\n", createdAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Items:   %d\n", len(items))

	total := 0
	for i, item := range items {
		total += item.Quantity

		fmt.Fprintf(&b, "\n#%d  %s\n", i+1, item.Filename)
		fmt.Fprintf(&b, "    Quantity:   %d\n", item.Quantity)
		fmt.Fprintf(&b, "    Technology: %s\n", item.Technology())
		fmt.Fprintf(&b, "    Material:   %s\n", item.Material())
		if item.IsFDM() {
			fmt.Fprintf(&b, "    Infill:     %d%%\n", item.Infill())
		}
		fmt.Fprintf(&b, "    Item ID:    %s\n", item.ID)
	}

	fmt.Fprintf(&b, "\nTOTAL UNITS: %d\n", total)
	return b.String(), total
}
