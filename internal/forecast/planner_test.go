package forecast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countcast-backend/internal/domain"
	"countcast-backend/internal/forecast"
)

func findRow(t *testing.T, rows []domain.PlannerRow, sku string) domain.PlannerRow {
	t.Helper()
	for _, r := range rows {
		if r.SKU == sku {
			return r
		}
	}
	t.Fatalf("no planner row for sku %s", sku)
	return domain.PlannerRow{}
}

func TestPlan_ReorderLevelsFromLatestPeriod(t *testing.T) {
	// 147-day period, 1000 received, 400 sold: rate ~2.72/day.
	in := forecast.PlannerInput{
		Snapshots: []domain.Snapshot{
			snap("X", "2025-07-01", 0),
			snap("X", "2025-11-25", 600),
		},
		Orders: []domain.PurchaseOrder{receivedPO("X", "2025-07-09", 1000)},
		Settings: []domain.SkuSettings{
			{SKU: "X", LeadTimeDays: 90, MinDays: 60, TargetMonths: 10},
		},
		Today: day("2025-11-25"),
	}

	rows := forecast.Plan(in)
	row := findRow(t, rows, "X")

	rate := 400.0 / 147.0
	assert.Equal(t, 600, row.CurrentInventory)
	assert.InDelta(t, rate, row.DailyRate, 1e-9)
	assert.InDelta(t, rate*150, row.ReorderTrigger, 0.01) // ~408
	assert.InDelta(t, rate*450, row.TargetLevel, 0.01)    // ~1224
	assert.InDelta(t, rate*450-600, row.ReorderQty, 0.01) // ~624
	assert.Equal(t, 0, row.OnOrder)

	// 600 on hand > 408 trigger and the order deadline is still ahead.
	assert.False(t, row.NeedsAction)
	require.NotNil(t, row.DaysToZero)
	assert.InDelta(t, 600/rate, *row.DaysToZero, 1e-9)
	require.NotNil(t, row.ZeroDate)
}

func TestPlan_ZeroRateMeansInfiniteHorizon(t *testing.T) {
	// One count only: no velocity history at all.
	in := forecast.PlannerInput{
		Snapshots: []domain.Snapshot{snap("A", "2025-01-01", 0)},
		Today:     day("2025-06-01"),
	}

	row := findRow(t, forecast.Plan(in), "A")
	assert.Zero(t, row.DailyRate)
	assert.Nil(t, row.DaysToZero, "infinite horizon must not be a number")
	assert.Nil(t, row.ZeroDate)
	assert.False(t, row.NeedsAction, "absence of demand cannot trigger a reorder")
	assert.Equal(t, day("2025-06-01"), row.OrderByDate)
}

func TestPlan_SKUUniverseIsUnionOfCollections(t *testing.T) {
	in := forecast.PlannerInput{
		Snapshots: []domain.Snapshot{snap("counted", "2025-01-01", 5)},
		Orders: []domain.PurchaseOrder{
			{SKU: "ordered-only", OrderDate: day("2025-02-01"), Qty: 25},
		},
		Settings: []domain.SkuSettings{
			{SKU: "configured-only", LeadTimeDays: 30, MinDays: 10, TargetMonths: 1},
		},
		Today: day("2025-03-01"),
	}

	rows := forecast.Plan(in)
	require.Len(t, rows, 3)

	ordered := findRow(t, rows, "ordered-only")
	assert.Zero(t, ordered.CurrentInventory)
	assert.Zero(t, ordered.DailyRate)
	assert.Equal(t, 25, ordered.OnOrder)

	configured := findRow(t, rows, "configured-only")
	assert.Zero(t, configured.CurrentInventory)
	assert.False(t, configured.NeedsAction)
}

func TestPlan_OnOrderSumsUnreceivedOnly(t *testing.T) {
	in := forecast.PlannerInput{
		Orders: []domain.PurchaseOrder{
			{SKU: "A", OrderDate: day("2025-01-01"), Qty: 10},
			{SKU: "A", OrderDate: day("2025-01-05"), Qty: 15},
			receivedPO("A", "2025-01-20", 99),
		},
		Today: day("2025-02-01"),
	}

	row := findRow(t, forecast.Plan(in), "A")
	assert.Equal(t, 25, row.OnOrder)
}

func TestPlan_DefaultSettingsApplied(t *testing.T) {
	// Steady 1/day over the latest period, 30 left: defaults (90+60) put
	// the deadline well past due.
	in := forecast.PlannerInput{
		Snapshots: []domain.Snapshot{
			snap("A", "2025-01-01", 60),
			snap("A", "2025-01-31", 30),
		},
		Today: day("2025-01-31"),
	}

	row := findRow(t, forecast.Plan(in), "A")
	assert.InDelta(t, 1.0, row.DailyRate, 1e-9)
	assert.InDelta(t, 150, row.ReorderTrigger, 1e-9)       // 1 * (90+60)
	assert.InDelta(t, 330, row.TargetLevel, 1e-9)          // 1 * (150+180)
	assert.InDelta(t, 300, row.ReorderQty, 1e-9)           // 330 - 30
	assert.True(t, row.NeedsAction)                        // 30 <= 150
	assert.Equal(t, day("2025-01-31"), row.OrderByDate)    // overdue -> today
}

func TestPlan_ReorderQtyNeverNegative(t *testing.T) {
	// Plenty of stock and on-order: target minus position is negative and
	// must clamp at zero.
	in := forecast.PlannerInput{
		Snapshots: []domain.Snapshot{
			snap("A", "2025-01-01", 2010),
			snap("A", "2025-01-31", 1980),
		},
		Orders: []domain.PurchaseOrder{
			{SKU: "A", OrderDate: day("2025-01-15"), Qty: 500},
		},
		Today: day("2025-01-31"),
	}

	row := findRow(t, forecast.Plan(in), "A")
	assert.GreaterOrEqual(t, row.ReorderQty, 0.0)
	assert.Zero(t, row.ReorderQty)
}

func TestPlan_NegativeRatePreservedButNeverActionable(t *testing.T) {
	in := forecast.PlannerInput{
		Snapshots: []domain.Snapshot{
			snap("A", "2025-01-01", 10),
			snap("A", "2025-01-11", 40),
		},
		Today: day("2025-01-11"),
	}

	row := findRow(t, forecast.Plan(in), "A")
	assert.InDelta(t, -3.0, row.DailyRate, 1e-9)
	assert.Equal(t, -30, row.UnitsSold)
	// Negative demand floors to zero for the reorder math only.
	assert.Zero(t, row.ReorderTrigger)
	assert.Zero(t, row.TargetLevel)
	assert.Zero(t, row.ReorderQty)
	assert.Nil(t, row.DaysToZero)
	assert.False(t, row.NeedsAction)
}

func TestPlan_OrderingActionFirstThenAlphabetical(t *testing.T) {
	mkDraining := func(sku string) []domain.Snapshot {
		return []domain.Snapshot{
			snap(sku, "2025-01-01", 100),
			snap(sku, "2025-01-11", 10),
		}
	}

	var snaps []domain.Snapshot
	snaps = append(snaps, mkDraining("b-urgent")...)
	snaps = append(snaps, mkDraining("a-urgent")...)
	// Quiet SKUs with no second count: rate zero, never actionable.
	snaps = append(snaps, snap("z-quiet", "2025-01-01", 5), snap("a-quiet", "2025-01-01", 5))

	rows := forecast.Plan(forecast.PlannerInput{Snapshots: snaps, Today: day("2025-01-11")})
	require.Len(t, rows, 4)

	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.SKU)
	}
	assert.Equal(t, []string{"a-urgent", "b-urgent", "a-quiet", "z-quiet"}, got)

	assert.True(t, rows[0].NeedsAction)
	assert.True(t, rows[1].NeedsAction)
	assert.False(t, rows[2].NeedsAction)
	assert.False(t, rows[3].NeedsAction)
}

func TestPlan_EmptyInputs(t *testing.T) {
	rows := forecast.Plan(forecast.PlannerInput{Today: day("2025-01-01")})
	assert.Empty(t, rows)
}
