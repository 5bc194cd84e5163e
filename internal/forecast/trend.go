package forecast

import (
	"sort"
	"time"

	"countcast-backend/internal/domain"
)

// Timeframe selects the trend window: a rolling span ending now, or an
// explicit custom range.
type Timeframe string

const (
	Timeframe3M     Timeframe = "3m"
	Timeframe6M     Timeframe = "6m"
	Timeframe1Y     Timeframe = "1y"
	TimeframeCustom Timeframe = "custom"
)

// TrendQuery describes the window to aggregate over. Now anchors the
// rolling timeframes and is supplied by the caller, never sourced from the
// wall clock here. Start/End apply only to TimeframeCustom.
type TrendQuery struct {
	Timeframe Timeframe
	Start     *time.Time
	End       *time.Time
	Now       time.Time
}

// Trend retains every historical period for one SKU whose end date (the
// newer snapshot's date, i.e. the plot date) falls inside the resolved
// window, sorted ascending, with total units sold and the unweighted mean
// of per-period rates. Periods of very different lengths weigh equally.
//
// A custom range missing either bound returns the full unfiltered series —
// a deliberate fallback so a half-filled form never blanks the chart.
func Trend(sku string, snapshots []domain.Snapshot, orders []domain.PurchaseOrder, q TrendQuery) domain.TrendReport {
	report := domain.TrendReport{SKU: sku, Periods: []domain.Period{}}

	periods := BuildPeriods(sku, snapshots, orders)
	start, end, bounded := q.resolve()

	for _, p := range periods {
		if bounded {
			plotAt := DateOnly(p.CurrDate)
			if plotAt.Before(start) || plotAt.After(end) {
				continue
			}
		}
		report.Periods = append(report.Periods, p)
	}

	sort.SliceStable(report.Periods, func(i, j int) bool {
		return report.Periods[i].CurrDate.Before(report.Periods[j].CurrDate)
	})

	for _, p := range report.Periods {
		report.TotalSold += p.UnitsSold
		report.AvgRate += p.DailyRate
	}
	if n := len(report.Periods); n > 0 {
		report.AvgRate /= float64(n)
	}
	return report
}

// resolve turns the query into a concrete [start, end] day range. The
// third return is false when the series should not be filtered at all.
func (q TrendQuery) resolve() (time.Time, time.Time, bool) {
	now := DateOnly(q.Now)
	switch q.Timeframe {
	case Timeframe3M:
		return now.AddDate(0, -3, 0), now, true
	case Timeframe6M:
		return now.AddDate(0, -6, 0), now, true
	case Timeframe1Y:
		return now.AddDate(-1, 0, 0), now, true
	case TimeframeCustom:
		if q.Start == nil || q.End == nil {
			return time.Time{}, time.Time{}, false
		}
		// End is inclusive through the whole day; comparisons here run on
		// normalized dates, so the day itself is the boundary.
		return DateOnly(*q.Start), DateOnly(*q.End), true
	default:
		return time.Time{}, time.Time{}, false
	}
}
