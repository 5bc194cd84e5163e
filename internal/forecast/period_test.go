package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countcast-backend/internal/domain"
	"countcast-backend/internal/forecast"
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func snap(sku, date string, qty int) domain.Snapshot {
	return domain.Snapshot{SKU: sku, Date: day(date), Qty: qty}
}

func receivedPO(sku, receivedDate string, qty int) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		SKU:          sku,
		OrderDate:    day("2025-01-01"),
		Qty:          qty,
		Received:     true,
		ReceivedDate: day(receivedDate),
	}
}

func TestBuildPeriods_FewerThanTwoSnapshots(t *testing.T) {
	assert.Empty(t, forecast.BuildPeriods("A", nil, nil))
	assert.Empty(t, forecast.BuildPeriods("A", []domain.Snapshot{snap("A", "2025-01-01", 5)}, nil))
}

func TestBuildPeriods_UnorderedInputPairsByDate(t *testing.T) {
	snaps := []domain.Snapshot{
		snap("A", "2025-03-01", 40),
		snap("A", "2025-01-01", 100),
		snap("A", "2025-02-01", 70),
	}

	periods := forecast.BuildPeriods("A", snaps, nil)
	require.Len(t, periods, 2)

	// Newest first.
	assert.Equal(t, day("2025-03-01"), periods[0].CurrDate)
	assert.Equal(t, day("2025-02-01"), periods[0].PrevDate)
	assert.Equal(t, day("2025-02-01"), periods[1].CurrDate)
	assert.Equal(t, day("2025-01-01"), periods[1].PrevDate)

	assert.Equal(t, 30, periods[0].UnitsSold)
	assert.Equal(t, 30, periods[1].UnitsSold)
}

func TestBuildPeriods_IgnoresOtherSKUs(t *testing.T) {
	snaps := []domain.Snapshot{
		snap("A", "2025-01-01", 10),
		snap("B", "2025-01-15", 99),
		snap("A", "2025-02-01", 5),
	}

	periods := forecast.BuildPeriods("A", snaps, nil)
	require.Len(t, periods, 1)
	assert.Equal(t, "A", periods[0].SKU)
	assert.Equal(t, 5, periods[0].UnitsSold)
}

func TestBuildPeriods_SameDayRecountEmitsZeroDayPeriod(t *testing.T) {
	snaps := []domain.Snapshot{
		snap("A", "2025-05-10", 20),
		snap("A", "2025-05-10", 18),
		snap("A", "2025-05-01", 30),
	}

	periods := forecast.BuildPeriods("A", snaps, nil)
	require.Len(t, periods, 2)

	// The duplicate-date pair is an ordinary adjacent pair with zero days
	// and a defined zero rate, never NaN.
	assert.Equal(t, 0, periods[0].Days)
	assert.Zero(t, periods[0].DailyRate)

	for _, p := range periods {
		assert.GreaterOrEqual(t, p.Days, 0)
		if p.Days == 0 {
			assert.Zero(t, p.DailyRate)
		}
	}
}

func TestBuildPeriods_ReceiptOnBoundaryCountedOnce(t *testing.T) {
	snaps := []domain.Snapshot{
		snap("A", "2025-01-01", 10),
		snap("A", "2025-02-01", 10),
		snap("A", "2025-03-01", 10),
	}
	// Received exactly on the middle count date: belongs to the older
	// period (prev, curr] and must not also land in the newer one.
	orders := []domain.PurchaseOrder{receivedPO("A", "2025-02-01", 50)}

	periods := forecast.BuildPeriods("A", snaps, orders)
	require.Len(t, periods, 2)
	assert.Equal(t, 0, periods[0].Purchases, "newer period must not count the boundary receipt")
	assert.Equal(t, 50, periods[1].Purchases, "older period owns the boundary receipt")
}

func TestBuildPeriods_UnreceivedAndForeignPOsExcluded(t *testing.T) {
	snaps := []domain.Snapshot{
		snap("A", "2025-01-01", 10),
		snap("A", "2025-02-01", 10),
	}
	pending := domain.PurchaseOrder{SKU: "A", OrderDate: day("2025-01-05"), Qty: 100, Received: false}
	otherSKU := receivedPO("B", "2025-01-15", 100)

	periods := forecast.BuildPeriods("A", snaps, []domain.PurchaseOrder{pending, otherSKU})
	require.Len(t, periods, 1)
	assert.Zero(t, periods[0].Purchases)
}

// Scenario from the original dataset: a 147-day period spanning one large
// receipt.
func TestBuildPeriods_ReceiptInsidePeriod(t *testing.T) {
	snaps := []domain.Snapshot{
		snap("X", "2025-07-01", 0),
		snap("X", "2025-11-25", 600),
	}
	orders := []domain.PurchaseOrder{receivedPO("X", "2025-07-09", 1000)}

	periods := forecast.BuildPeriods("X", snaps, orders)
	require.Len(t, periods, 1)

	p := periods[0]
	assert.Equal(t, 147, p.Days)
	assert.Equal(t, 1000, p.Purchases)
	assert.Equal(t, 400, p.UnitsSold)
	assert.InDelta(t, 2.72, p.DailyRate, 0.01)
}

func TestBuildPeriods_NegativeUnitsSoldPreserved(t *testing.T) {
	// Count grew with no recorded receipt: a data-entry signal that must
	// flow through unclamped.
	snaps := []domain.Snapshot{
		snap("A", "2025-01-01", 10),
		snap("A", "2025-01-11", 40),
	}

	periods := forecast.BuildPeriods("A", snaps, nil)
	require.Len(t, periods, 1)
	assert.Equal(t, -30, periods[0].UnitsSold)
	assert.InDelta(t, -3.0, periods[0].DailyRate, 1e-9)
}
