package domain

import "time"

// DateLayout is the canonical wire format for all calendar dates. Every
// date in the system is date-only; time-of-day is always UTC midnight.
const DateLayout = "2006-01-02"

// Snapshot is a physical inventory count for one SKU at a point in time.
// Snapshots are never mutated after entry, only deleted.
type Snapshot struct {
	ID   int64     `json:"id" db:"id"`
	SKU  string    `json:"sku" db:"sku"`
	Date time.Time `json:"date" db:"count_date"`
	Qty  int       `json:"qty" db:"qty"`
}

// PurchaseOrder is a restock order. Received and ReceivedDate are the only
// fields mutated after creation; clearing the receipt blanks the date.
type PurchaseOrder struct {
	ID           int64     `json:"id" db:"id"`
	SKU          string    `json:"sku" db:"sku"`
	PONumber     string    `json:"po_number" db:"po_number"`
	OrderDate    time.Time `json:"order_date" db:"order_date"`
	Qty          int       `json:"qty" db:"qty"`
	Received     bool      `json:"received" db:"received"`
	ETA          time.Time `json:"eta,omitempty" db:"eta"`
	ReceivedDate time.Time `json:"received_date,omitempty" db:"received_date"`
	Vendor       string    `json:"vendor,omitempty" db:"vendor"`
}

// SkuSettings is the per-SKU replenishment policy. At most one row per SKU;
// absent settings fall back to DefaultSettings.
type SkuSettings struct {
	SKU          string  `json:"sku" db:"sku"`
	LeadTimeDays int     `json:"lead_time_days" db:"lead_time_days"`
	MinDays      int     `json:"min_days" db:"min_days"`
	TargetMonths float64 `json:"target_months" db:"target_months"`
}

// DefaultSettings returns the policy applied to SKUs without a settings row.
func DefaultSettings(sku string) SkuSettings {
	return SkuSettings{
		SKU:          sku,
		LeadTimeDays: 90,
		MinDays:      60,
		TargetMonths: 6,
	}
}

// Period is a derived consumption interval between two date-adjacent
// snapshots of one SKU, with the purchases received strictly after the
// older count and up to and including the newer one.
type Period struct {
	SKU       string    `json:"sku"`
	PrevDate  time.Time `json:"prev_date"`
	PrevQty   int       `json:"prev_qty"`
	CurrDate  time.Time `json:"curr_date"`
	CurrQty   int       `json:"curr_qty"`
	Days      int       `json:"days"`
	Purchases int       `json:"purchases"`
	UnitsSold int       `json:"units_sold"`
	DailyRate float64   `json:"daily_rate"`
}

// PlannerRow is one replenishment forecast line. DaysToZero is nil when the
// SKU has no positive sales rate (infinite horizon); ZeroDate is unset for
// the same reason. Neither sentinel is ever reported as zero.
type PlannerRow struct {
	SKU              string     `json:"sku"`
	CurrentInventory int        `json:"current_inventory"`
	DailyRate        float64    `json:"daily_rate"`
	UnitsSold        int        `json:"units_sold"`
	DaysToZero       *float64   `json:"days_to_zero"`
	ReorderTrigger   float64    `json:"reorder_trigger"`
	TargetLevel      float64    `json:"target_level"`
	OnOrder          int        `json:"on_order"`
	ReorderQty       float64    `json:"reorder_qty"`
	ZeroDate         *time.Time `json:"zero_date"`
	OrderByDate      time.Time  `json:"order_by_date"`
	NeedsAction      bool       `json:"needs_action"`
}

// TrendReport is the windowed period series for one SKU plus its summary
// scalars. AvgRate is the unweighted mean of per-period rates, not a rate
// re-derived from the totals.
type TrendReport struct {
	SKU       string   `json:"sku"`
	TotalSold int      `json:"total_sold"`
	AvgRate   float64  `json:"avg_rate"`
	Periods   []Period `json:"periods"`
}

// LeadTimeRow aggregates received purchase orders for one SKU. The averages
// are nil when no valid samples exist for the SKU.
type LeadTimeRow struct {
	SKU             string   `json:"sku"`
	Orders          int      `json:"orders"`
	AvgLeadDays     *float64 `json:"avg_lead_days"`
	AvgVarianceDays *float64 `json:"avg_variance_days"`
	OnTimeOrders    int      `json:"on_time_orders"`
}

// LeadTimeReport is the vendor reliability report across all purchase orders.
type LeadTimeReport struct {
	TotalPOs        int           `json:"total_pos"`
	EvaluatedPOs    int           `json:"evaluated_pos"`
	AvgVarianceDays *float64      `json:"avg_variance_days"`
	OnTimePct       *float64      `json:"on_time_pct"`
	Rows            []LeadTimeRow `json:"rows"`
}
