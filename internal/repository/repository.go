package repository

import (
	"context"
	"errors"
	"time"

	"countcast-backend/internal/domain"
)

// ErrNotFound is returned when a row targeted by id or SKU does not exist.
var ErrNotFound = errors.New("not found")

// InventoryRepository stores the three raw collections the forecast engine
// derives everything from. Snapshots and purchase orders are append/delete;
// the only in-place mutation anywhere is the purchase-order receipt toggle.
type InventoryRepository interface {
	ListSnapshots(ctx context.Context) ([]domain.Snapshot, error)
	CreateSnapshot(ctx context.Context, s *domain.Snapshot) error
	DeleteSnapshot(ctx context.Context, id int64) error

	ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error
	DeletePurchaseOrder(ctx context.Context, id int64) error
	// SetReceipt marks the order received as of receivedOn, or clears the
	// receipt (blanking the received date) when received is false.
	SetReceipt(ctx context.Context, id int64, received bool, receivedOn time.Time) (*domain.PurchaseOrder, error)

	ListSettings(ctx context.Context) ([]domain.SkuSettings, error)
	UpsertSettings(ctx context.Context, s *domain.SkuSettings) error
}
