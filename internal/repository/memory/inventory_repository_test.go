package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countcast-backend/internal/domain"
	"countcast-backend/internal/repository"
	"countcast-backend/internal/repository/memory"
)

func TestSnapshotLifecycle(t *testing.T) {
	repo := memory.NewInventoryRepository()
	ctx := context.Background()

	s := &domain.Snapshot{SKU: "A", Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Qty: 10}
	require.NoError(t, repo.CreateSnapshot(ctx, s))
	assert.NotZero(t, s.ID)

	listed, err := repo.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "A", listed[0].SKU)

	require.NoError(t, repo.DeleteSnapshot(ctx, s.ID))
	listed, err = repo.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	assert.ErrorIs(t, repo.DeleteSnapshot(ctx, s.ID), repository.ErrNotFound)
}

func TestReceiptToggle(t *testing.T) {
	repo := memory.NewInventoryRepository()
	ctx := context.Background()

	po := &domain.PurchaseOrder{
		SKU:       "A",
		PONumber:  "PO-1",
		OrderDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		Qty:       100,
	}
	require.NoError(t, repo.CreatePurchaseOrder(ctx, po))

	receivedOn := time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)
	updated, err := repo.SetReceipt(ctx, po.ID, true, receivedOn)
	require.NoError(t, err)
	assert.True(t, updated.Received)
	assert.Equal(t, receivedOn, updated.ReceivedDate)

	// Clearing the receipt blanks the date again.
	updated, err = repo.SetReceipt(ctx, po.ID, false, receivedOn)
	require.NoError(t, err)
	assert.False(t, updated.Received)
	assert.True(t, updated.ReceivedDate.IsZero())

	_, err = repo.SetReceipt(ctx, 9999, true, receivedOn)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSettingsUpsertReplaces(t *testing.T) {
	repo := memory.NewInventoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpsertSettings(ctx, &domain.SkuSettings{SKU: "A", LeadTimeDays: 30, MinDays: 10, TargetMonths: 2}))
	require.NoError(t, repo.UpsertSettings(ctx, &domain.SkuSettings{SKU: "A", LeadTimeDays: 45, MinDays: 20, TargetMonths: 3}))

	settings, err := repo.ListSettings(ctx)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, 45, settings[0].LeadTimeDays)
	assert.Equal(t, 20, settings[0].MinDays)
}

func TestListReturnsCopies(t *testing.T) {
	repo := memory.NewInventoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.CreateSnapshot(ctx, &domain.Snapshot{SKU: "A", Qty: 10}))

	first, err := repo.ListSnapshots(ctx)
	require.NoError(t, err)
	first[0].Qty = 999

	second, err := repo.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, second[0].Qty)
}
