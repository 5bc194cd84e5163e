package forecast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countcast-backend/internal/domain"
	"countcast-backend/internal/forecast"
)

// Four counts, three periods ending 2025-02-01, 2025-03-01 and 2025-06-01.
func trendSnapshots() []domain.Snapshot {
	return []domain.Snapshot{
		snap("A", "2025-01-01", 100),
		snap("A", "2025-02-01", 69),  // 31 sold over 31d -> 1.0/day
		snap("A", "2025-03-01", 41),  // 28 sold over 28d -> 1.0/day
		snap("A", "2025-06-01", 41),  // 0 sold over 92d -> 0.0/day
	}
}

func TestTrend_RollingWindowKeepsPeriodsByEndDate(t *testing.T) {
	report := forecast.Trend("A", trendSnapshots(), nil, forecast.TrendQuery{
		Timeframe: forecast.Timeframe3M,
		Now:       day("2025-06-01"),
	})

	// 3m window from 2025-03-01: keeps the periods ending 03-01 and 06-01.
	require.Len(t, report.Periods, 2)
	assert.Equal(t, day("2025-03-01"), report.Periods[0].CurrDate)
	assert.Equal(t, day("2025-06-01"), report.Periods[1].CurrDate)
	assert.Equal(t, 28, report.TotalSold)
	assert.InDelta(t, 0.5, report.AvgRate, 1e-9)
}

func TestTrend_FullYearKeepsEverythingAscending(t *testing.T) {
	report := forecast.Trend("A", trendSnapshots(), nil, forecast.TrendQuery{
		Timeframe: forecast.Timeframe1Y,
		Now:       day("2025-06-01"),
	})

	require.Len(t, report.Periods, 3)
	for i := 1; i < len(report.Periods); i++ {
		assert.False(t, report.Periods[i].CurrDate.Before(report.Periods[i-1].CurrDate))
	}
	assert.Equal(t, 59, report.TotalSold)
	// Unweighted mean of per-period rates, not 59 units over 151 days.
	assert.InDelta(t, (1.0+1.0+0.0)/3, report.AvgRate, 1e-9)
}

func TestTrend_CustomRangeEndInclusive(t *testing.T) {
	start := day("2025-02-15")
	end := day("2025-03-01")
	report := forecast.Trend("A", trendSnapshots(), nil, forecast.TrendQuery{
		Timeframe: forecast.TimeframeCustom,
		Start:     &start,
		End:       &end,
		Now:       day("2025-06-01"),
	})

	// The period ending exactly on the end date stays in.
	require.Len(t, report.Periods, 1)
	assert.Equal(t, day("2025-03-01"), report.Periods[0].CurrDate)
}

func TestTrend_IncompleteCustomRangeReturnsFullSeries(t *testing.T) {
	start := day("2025-02-15")
	report := forecast.Trend("A", trendSnapshots(), nil, forecast.TrendQuery{
		Timeframe: forecast.TimeframeCustom,
		Start:     &start, // no end supplied
		Now:       day("2025-06-01"),
	})

	// Deliberate fallback: a half-filled range means no filtering, not an
	// empty chart.
	assert.Len(t, report.Periods, 3)

	var noBounds forecast.TrendQuery
	noBounds.Timeframe = forecast.TimeframeCustom
	noBounds.Now = day("2025-06-01")
	report = forecast.Trend("A", trendSnapshots(), nil, noBounds)
	assert.Len(t, report.Periods, 3)
}

func TestTrend_EmptyWindow(t *testing.T) {
	start := day("2020-01-01")
	end := day("2020-12-31")
	report := forecast.Trend("A", trendSnapshots(), nil, forecast.TrendQuery{
		Timeframe: forecast.TimeframeCustom,
		Start:     &start,
		End:       &end,
		Now:       day("2025-06-01"),
	})

	assert.Empty(t, report.Periods)
	assert.Zero(t, report.TotalSold)
	assert.Zero(t, report.AvgRate)
}

func TestTrend_NoHistory(t *testing.T) {
	report := forecast.Trend("A", []domain.Snapshot{snap("A", "2025-01-01", 5)}, nil, forecast.TrendQuery{
		Timeframe: forecast.Timeframe6M,
		Now:       day("2025-06-01"),
	})
	assert.NotNil(t, report.Periods)
	assert.Empty(t, report.Periods)
}

func TestTrend_PurchasesFlowIntoWindowedPeriods(t *testing.T) {
	orders := []domain.PurchaseOrder{receivedPO("A", "2025-02-10", 70)}
	report := forecast.Trend("A", trendSnapshots(), orders, forecast.TrendQuery{
		Timeframe: forecast.Timeframe1Y,
		Now:       day("2025-06-01"),
	})

	require.Len(t, report.Periods, 3)
	middle := report.Periods[1]
	assert.Equal(t, 70, middle.Purchases)
	assert.Equal(t, 98, middle.UnitsSold) // 69 + 70 - 41
}

func TestTrend_NowNormalizedToDate(t *testing.T) {
	// A "now" with time-of-day attached must not shift the window edge.
	noon := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	report := forecast.Trend("A", trendSnapshots(), nil, forecast.TrendQuery{
		Timeframe: forecast.Timeframe3M,
		Now:       noon,
	})
	assert.Len(t, report.Periods, 2)
}
