package forecast

import (
	"time"

	"countcast-backend/internal/domain"
)

// newPeriod fills in the velocity figures for the interval between two
// counts. UnitsSold may come out negative when a count exceeds the prior
// count plus receipts; that is preserved as a data-quality signal, not
// clamped.
func newPeriod(sku string, prev, curr domain.Snapshot, orders []domain.PurchaseOrder) domain.Period {
	p := domain.Period{
		SKU:      sku,
		PrevDate: DateOnly(prev.Date),
		PrevQty:  prev.Qty,
		CurrDate: DateOnly(curr.Date),
		CurrQty:  curr.Qty,
	}

	p.Days = daysBetween(p.PrevDate, p.CurrDate)
	p.Purchases = receivedInWindow(orders, sku, p.PrevDate, p.CurrDate)
	p.UnitsSold = prev.Qty + p.Purchases - curr.Qty
	p.DailyRate = dailyRate(p.UnitsSold, p.Days)
	return p
}

// receivedInWindow sums received purchase quantities for sku whose received
// date falls in (after, upTo].
func receivedInWindow(orders []domain.PurchaseOrder, sku string, after, upTo time.Time) int {
	total := 0
	for _, po := range orders {
		if po.SKU != sku || !po.Received || po.ReceivedDate.IsZero() {
			continue
		}
		if inWindow(po.ReceivedDate, after, upTo) {
			total += po.Qty
		}
	}
	return total
}

// dailyRate is unitsSold spread over the period length. A zero-length
// period (same-day recount) resolves to a silent zero, never NaN or Inf.
func dailyRate(unitsSold, days int) float64 {
	if days <= 0 {
		return 0
	}
	return float64(unitsSold) / float64(days)
}
