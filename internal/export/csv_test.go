package export_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countcast-backend/internal/domain"
	"countcast-backend/internal/export"
)

func TestPlannerCSV_SentinelsRenderAsNever(t *testing.T) {
	days := 42.5
	zero := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.PlannerRow{
		{SKU: "finite", CurrentInventory: 100, DailyRate: 2.4, DaysToZero: &days, ZeroDate: &zero,
			OrderByDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), NeedsAction: true},
		{SKU: "infinite", CurrentInventory: 5,
			OrderByDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	out, err := export.PlannerCSV(rows)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	finite := records[1]
	assert.Equal(t, "finite", finite[0])
	assert.Equal(t, "42.5", finite[4])
	assert.Equal(t, "2025-03-01", finite[5])
	assert.Equal(t, "true", finite[11])

	infinite := records[2]
	assert.Equal(t, "never", infinite[4])
	assert.Equal(t, "never", infinite[5])
	assert.Equal(t, "false", infinite[11])
}

func TestLeadTimeCSV_NullStatsRenderAsDash(t *testing.T) {
	lead := 20.0
	report := domain.LeadTimeReport{
		TotalPOs:     3,
		EvaluatedPOs: 1,
		Rows: []domain.LeadTimeRow{
			{SKU: "A", Orders: 1, AvgLeadDays: &lead}, // no valid ETA samples
		},
	}

	out, err := export.LeadTimeCSV(report)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "20.0", records[1][2])
	assert.Equal(t, "—", records[1][3], "missing variance must not render as zero")

	totals := records[2]
	assert.Equal(t, "TOTAL", totals[0])
	assert.Equal(t, "1/3", totals[1])
	assert.Equal(t, "—", totals[4])
}
