package forecast

import (
	"sort"

	"countcast-backend/internal/domain"
)

// BuildPeriods reconstructs the consumption periods for one SKU from its
// physical counts. Snapshots may arrive in any order; purchase orders may
// be the full unfiltered collection. The result is ordered newest first,
// one period per adjacent snapshot pair, so callers wanting the current
// rate read index 0.
//
// Fewer than two snapshots means no velocity history: the result is empty.
// Same-day recounts produce a zero-day period rather than being skipped;
// the velocity math resolves those to a zero rate.
func BuildPeriods(sku string, snapshots []domain.Snapshot, orders []domain.PurchaseOrder) []domain.Period {
	counts := make([]domain.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.SKU == sku {
			counts = append(counts, s)
		}
	}
	if len(counts) < 2 {
		return nil
	}

	// Newest first. Ordering is by date only, never by id or entry order.
	sort.SliceStable(counts, func(i, j int) bool {
		return DateOnly(counts[i].Date).After(DateOnly(counts[j].Date))
	})

	periods := make([]domain.Period, 0, len(counts)-1)
	for i := 0; i < len(counts)-1; i++ {
		curr, prev := counts[i], counts[i+1]
		periods = append(periods, newPeriod(sku, prev, curr, orders))
	}
	return periods
}
