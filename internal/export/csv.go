package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"countcast-backend/internal/domain"
)

// Placeholders for sentinel values in exported reports: an infinite
// stockout horizon renders as "never", a statistic with no valid samples
// as an em dash.
const (
	neverPlaceholder = "never"
	nullPlaceholder  = "—"
)

// PlannerCSV renders the replenishment forecast in row order (urgent rows
// are already first; the ordering is part of the report contract).
func PlannerCSV(rows []domain.PlannerRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"SKU", "Current Inventory", "Daily Rate", "Units Sold", "Days To Zero",
		"Zero-Stock Date", "Reorder Trigger", "Target Level", "On Order",
		"Reorder Qty", "Order By", "Needs Action",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.SKU,
			strconv.Itoa(row.CurrentInventory),
			fmt.Sprintf("%.2f", row.DailyRate),
			strconv.Itoa(row.UnitsSold),
			floatOrNever(row.DaysToZero),
			dateOrNever(row.ZeroDate),
			fmt.Sprintf("%.0f", row.ReorderTrigger),
			fmt.Sprintf("%.0f", row.TargetLevel),
			strconv.Itoa(row.OnOrder),
			fmt.Sprintf("%.0f", row.ReorderQty),
			row.OrderByDate.Format(domain.DateLayout),
			strconv.FormatBool(row.NeedsAction),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LeadTimeCSV renders the vendor reliability report: per-SKU rows followed
// by a totals line.
func LeadTimeCSV(report domain.LeadTimeReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"SKU", "Received Orders", "Avg Lead Days", "Avg ETA Variance", "On-Time Orders"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range report.Rows {
		record := []string{
			row.SKU,
			strconv.Itoa(row.Orders),
			floatOrNull(row.AvgLeadDays),
			floatOrNull(row.AvgVarianceDays),
			strconv.Itoa(row.OnTimeOrders),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	totals := []string{
		"TOTAL",
		fmt.Sprintf("%d/%d", report.EvaluatedPOs, report.TotalPOs),
		nullPlaceholder,
		floatOrNull(report.AvgVarianceDays),
		pctOrNull(report.OnTimePct),
	}
	if err := w.Write(totals); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func floatOrNever(v *float64) string {
	if v == nil {
		return neverPlaceholder
	}
	return fmt.Sprintf("%.1f", *v)
}

func dateOrNever(t *time.Time) string {
	if t == nil {
		return neverPlaceholder
	}
	return t.Format(domain.DateLayout)
}

func floatOrNull(v *float64) string {
	if v == nil {
		return nullPlaceholder
	}
	return fmt.Sprintf("%.1f", *v)
}

func pctOrNull(v *float64) string {
	if v == nil {
		return nullPlaceholder
	}
	return fmt.Sprintf("%.1f%%", *v)
}
