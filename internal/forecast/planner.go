package forecast

import (
	"math"
	"sort"
	"time"

	"countcast-backend/internal/domain"
)

// PlannerInput carries the full raw collections plus the day the forecast
// is computed for. Today is an explicit parameter so identical inputs
// always produce identical rows; the engine never reads the wall clock.
type PlannerInput struct {
	Snapshots []domain.Snapshot
	Orders    []domain.PurchaseOrder
	Settings  []domain.SkuSettings
	Today     time.Time
}

// Plan produces one replenishment row per SKU appearing anywhere in the
// three collections. A SKU with purchase orders but no count yet still
// gets a row with zero inventory and zero rate rather than being dropped.
//
// Rows needing action sort first, alphabetically by SKU within each group.
// The ordering is a user-facing contract: urgent items surface to the top.
func Plan(in PlannerInput) []domain.PlannerRow {
	today := DateOnly(in.Today)

	settingsBySKU := make(map[string]domain.SkuSettings, len(in.Settings))
	for _, s := range in.Settings {
		settingsBySKU[s.SKU] = s
	}

	skus := skuUniverse(in)
	rows := make([]domain.PlannerRow, 0, len(skus))
	for _, sku := range skus {
		settings, ok := settingsBySKU[sku]
		if !ok {
			settings = domain.DefaultSettings(sku)
		}
		rows = append(rows, planSKU(sku, settings, in, today))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].NeedsAction != rows[j].NeedsAction {
			return rows[i].NeedsAction
		}
		return rows[i].SKU < rows[j].SKU
	})
	return rows
}

func planSKU(sku string, settings domain.SkuSettings, in PlannerInput, today time.Time) domain.PlannerRow {
	row := domain.PlannerRow{SKU: sku, OrderByDate: today}

	// Current inventory is the most recent count; missing counts mean zero,
	// and zero or one count means no velocity history at all.
	latest, hasCount := latestSnapshot(sku, in.Snapshots)
	if hasCount {
		row.CurrentInventory = latest.Qty
	}
	periods := BuildPeriods(sku, in.Snapshots, in.Orders)
	if len(periods) > 0 {
		// Only the latest period drives the "current" rate. Older periods
		// matter for trends, not for the live forecast.
		row.DailyRate = periods[0].DailyRate
		row.UnitsSold = periods[0].UnitsSold
	}

	for _, po := range in.Orders {
		if po.SKU == sku && !po.Received {
			row.OnOrder += po.Qty
		}
	}

	coverDays := float64(settings.LeadTimeDays + settings.MinDays)
	demand := math.Max(0, row.DailyRate)
	row.ReorderTrigger = demand * coverDays
	row.TargetLevel = demand * (coverDays + settings.TargetMonths*30)
	row.ReorderQty = math.Max(0, row.TargetLevel-float64(row.CurrentInventory+row.OnOrder))

	daysToZero := math.Inf(1)
	if row.DailyRate > 0 {
		daysToZero = float64(row.CurrentInventory) / row.DailyRate
	}
	daysUntilOrder := daysToZero - coverDays

	if !math.IsInf(daysToZero, 1) {
		row.DaysToZero = &daysToZero
		zero := today.AddDate(0, 0, int(math.Round(daysToZero)))
		row.ZeroDate = &zero

		// Absence of demand can never trigger a reorder, no matter how
		// little stock is on the shelf.
		row.NeedsAction = daysUntilOrder <= 0 ||
			float64(row.CurrentInventory) <= row.ReorderTrigger
	}

	if math.IsInf(daysUntilOrder, 0) || daysUntilOrder <= 0 {
		row.OrderByDate = today
	} else {
		row.OrderByDate = today.AddDate(0, 0, int(math.Floor(daysUntilOrder)))
	}
	return row
}

// skuUniverse returns the sorted union of every SKU present in any of the
// three collections.
func skuUniverse(in PlannerInput) []string {
	seen := make(map[string]struct{})
	for _, s := range in.Snapshots {
		seen[s.SKU] = struct{}{}
	}
	for _, po := range in.Orders {
		seen[po.SKU] = struct{}{}
	}
	for _, s := range in.Settings {
		seen[s.SKU] = struct{}{}
	}

	skus := make([]string, 0, len(seen))
	for sku := range seen {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

func latestSnapshot(sku string, snapshots []domain.Snapshot) (domain.Snapshot, bool) {
	var latest domain.Snapshot
	found := false
	for _, s := range snapshots {
		if s.SKU != sku {
			continue
		}
		if !found || DateOnly(s.Date).After(DateOnly(latest.Date)) {
			latest = s
			found = true
		}
	}
	return latest, found
}
