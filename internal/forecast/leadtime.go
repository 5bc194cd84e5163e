package forecast

import (
	"sort"
	"time"

	"countcast-backend/internal/domain"
)

// AnalyzeLeadTimes computes vendor reliability statistics from purchase
// orders alone; snapshots play no part. Only orders marked received with
// both an order date and a received date participate. ETA variance is
// computed per order only when the ETA is a valid date — an order without
// one is excluded from variance aggregation, never counted as zero
// variance.
func AnalyzeLeadTimes(orders []domain.PurchaseOrder) domain.LeadTimeReport {
	report := domain.LeadTimeReport{
		TotalPOs: len(orders),
		Rows:     []domain.LeadTimeRow{},
	}

	type skuAccum struct {
		orders        int
		leadSum       float64
		leadSamples   int
		varianceSum   float64
		varianceCount int
		onTime        int
	}
	bySKU := make(map[string]*skuAccum)

	var globalVarianceSum float64
	var globalVarianceCount, globalOnTime int

	for _, po := range orders {
		if !po.Received || po.OrderDate.IsZero() || po.ReceivedDate.IsZero() {
			continue
		}
		report.EvaluatedPOs++

		acc := bySKU[po.SKU]
		if acc == nil {
			acc = &skuAccum{}
			bySKU[po.SKU] = acc
		}
		acc.orders++

		// Actual lead time is an absolute day count, so a mis-keyed
		// received date before the order date cannot go negative.
		lead := float64(daysBetween(po.OrderDate, po.ReceivedDate))
		acc.leadSum += lead
		acc.leadSamples++

		if po.ETA.IsZero() {
			continue
		}
		// Positive variance = late; zero or negative = on time or early.
		variance := signedDays(po.ETA, po.ReceivedDate)
		acc.varianceSum += variance
		acc.varianceCount++
		globalVarianceSum += variance
		globalVarianceCount++
		if variance <= 0 {
			acc.onTime++
			globalOnTime++
		}
	}

	skus := make([]string, 0, len(bySKU))
	for sku := range bySKU {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	for _, sku := range skus {
		acc := bySKU[sku]
		row := domain.LeadTimeRow{
			SKU:          sku,
			Orders:       acc.orders,
			OnTimeOrders: acc.onTime,
		}
		if acc.leadSamples > 0 {
			avg := acc.leadSum / float64(acc.leadSamples)
			row.AvgLeadDays = &avg
		}
		if acc.varianceCount > 0 {
			avg := acc.varianceSum / float64(acc.varianceCount)
			row.AvgVarianceDays = &avg
		}
		report.Rows = append(report.Rows, row)
	}

	if globalVarianceCount > 0 {
		avg := globalVarianceSum / float64(globalVarianceCount)
		report.AvgVarianceDays = &avg
		pct := float64(globalOnTime) / float64(globalVarianceCount) * 100
		report.OnTimePct = &pct
	}
	return report
}

// signedDays is the whole-day difference to − from, negative when to is
// earlier.
func signedDays(from, to time.Time) float64 {
	return DateOnly(to).Sub(DateOnly(from)).Hours() / 24
}
