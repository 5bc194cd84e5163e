package memory

import (
	"context"
	"sync"
	"time"

	"countcast-backend/internal/domain"
	"countcast-backend/internal/repository"
)

// InventoryRepository is an in-memory implementation backing tests and the
// "memory" store mode. All methods copy on the way in and out so callers
// can never alias internal state.
type InventoryRepository struct {
	mu        sync.RWMutex
	nextID    int64
	snapshots map[int64]domain.Snapshot
	orders    map[int64]domain.PurchaseOrder
	settings  map[string]domain.SkuSettings
}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		nextID:    1,
		snapshots: make(map[int64]domain.Snapshot),
		orders:    make(map[int64]domain.PurchaseOrder),
		settings:  make(map[string]domain.SkuSettings),
	}
}

var _ repository.InventoryRepository = (*InventoryRepository)(nil)

func (r *InventoryRepository) ListSnapshots(ctx context.Context) ([]domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Snapshot, 0, len(r.snapshots))
	for _, s := range r.snapshots {
		out = append(out, s)
	}
	return out, nil
}

func (r *InventoryRepository) CreateSnapshot(ctx context.Context, s *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.nextID
	r.nextID++
	r.snapshots[s.ID] = *s
	return nil
}

func (r *InventoryRepository) DeleteSnapshot(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.snapshots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.snapshots, id)
	return nil
}

func (r *InventoryRepository) ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.PurchaseOrder, 0, len(r.orders))
	for _, po := range r.orders {
		out = append(out, po)
	}
	return out, nil
}

func (r *InventoryRepository) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	po.ID = r.nextID
	r.nextID++
	r.orders[po.ID] = *po
	return nil
}

func (r *InventoryRepository) DeletePurchaseOrder(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *InventoryRepository) SetReceipt(ctx context.Context, id int64, received bool, receivedOn time.Time) (*domain.PurchaseOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	po, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	po.Received = received
	if received {
		po.ReceivedDate = receivedOn
	} else {
		// Clearing the receipt blanks the date.
		po.ReceivedDate = time.Time{}
	}
	r.orders[id] = po

	out := po
	return &out, nil
}

func (r *InventoryRepository) ListSettings(ctx context.Context) ([]domain.SkuSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SkuSettings, 0, len(r.settings))
	for _, s := range r.settings {
		out = append(out, s)
	}
	return out, nil
}

func (r *InventoryRepository) UpsertSettings(ctx context.Context, s *domain.SkuSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[s.SKU] = *s
	return nil
}
