package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"countcast-backend/internal/domain"
	"countcast-backend/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

// NewInventoryRepository returns the postgres-backed store for snapshots,
// purchase orders and per-SKU settings.
func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

// poRow mirrors purchase_orders with nullable date columns. Dates are DATE
// in the schema; NULL maps to the zero time, which the engine treats as
// "unset".
type poRow struct {
	ID           int64        `db:"id"`
	SKU          string       `db:"sku"`
	PONumber     string       `db:"po_number"`
	OrderDate    time.Time    `db:"order_date"`
	Qty          int          `db:"qty"`
	Received     bool         `db:"received"`
	ETA          sql.NullTime `db:"eta"`
	ReceivedDate sql.NullTime `db:"received_date"`
	Vendor       string       `db:"vendor"`
}

func (r poRow) toDomain() domain.PurchaseOrder {
	po := domain.PurchaseOrder{
		ID:        r.ID,
		SKU:       r.SKU,
		PONumber:  r.PONumber,
		OrderDate: r.OrderDate,
		Qty:       r.Qty,
		Received:  r.Received,
		Vendor:    r.Vendor,
	}
	if r.ETA.Valid {
		po.ETA = r.ETA.Time
	}
	if r.ReceivedDate.Valid {
		po.ReceivedDate = r.ReceivedDate.Time
	}
	return po
}

func nullDate(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func (r *inventoryRepository) ListSnapshots(ctx context.Context) ([]domain.Snapshot, error) {
	snapshots := make([]domain.Snapshot, 0)
	query := `SELECT id, sku, count_date, qty FROM snapshots ORDER BY count_date DESC, id DESC`
	if err := r.db.SelectContext(ctx, &snapshots, query); err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *inventoryRepository) CreateSnapshot(ctx context.Context, s *domain.Snapshot) error {
	query := `
        INSERT INTO snapshots (sku, count_date, qty)
        VALUES ($1, $2, $3)
        RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, s.SKU, s.Date, s.Qty).Scan(&s.ID); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	log.Debug().Str("sku", s.SKU).Time("date", s.Date).Int("qty", s.Qty).Msg("snapshot created")
	return nil
}

func (r *inventoryRepository) DeleteSnapshot(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	rows := make([]poRow, 0)
	query := `
        SELECT id, sku, po_number, order_date, qty, received, eta, received_date, vendor
        FROM purchase_orders
        ORDER BY order_date DESC, id DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	orders := make([]domain.PurchaseOrder, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toDomain())
	}
	return orders, nil
}

func (r *inventoryRepository) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	query := `
        INSERT INTO purchase_orders (sku, po_number, order_date, qty, received, eta, received_date, vendor)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		po.SKU, po.PONumber, po.OrderDate, po.Qty, po.Received,
		nullDate(po.ETA), nullDate(po.ReceivedDate), po.Vendor,
	).Scan(&po.ID)
	if err != nil {
		return fmt.Errorf("failed to insert purchase order: %w", err)
	}
	log.Debug().Str("sku", po.SKU).Str("po_number", po.PONumber).Msg("purchase order created")
	return nil
}

func (r *inventoryRepository) DeletePurchaseOrder(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) SetReceipt(ctx context.Context, id int64, received bool, receivedOn time.Time) (*domain.PurchaseOrder, error) {
	receivedDate := sql.NullTime{}
	if received {
		receivedDate = nullDate(receivedOn)
	}

	var row poRow
	query := `
        UPDATE purchase_orders
        SET received = $2, received_date = $3
        WHERE id = $1
        RETURNING id, sku, po_number, order_date, qty, received, eta, received_date, vendor`
	err := r.db.GetContext(ctx, &row, query, id, received, receivedDate)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update receipt: %w", err)
	}

	po := row.toDomain()
	return &po, nil
}

func (r *inventoryRepository) ListSettings(ctx context.Context) ([]domain.SkuSettings, error) {
	settings := make([]domain.SkuSettings, 0)
	query := `SELECT sku, lead_time_days, min_days, target_months FROM sku_settings ORDER BY sku`
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("failed to list sku settings: %w", err)
	}
	return settings, nil
}

func (r *inventoryRepository) UpsertSettings(ctx context.Context, s *domain.SkuSettings) error {
	query := `
        INSERT INTO sku_settings (sku, lead_time_days, min_days, target_months)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (sku) DO UPDATE
        SET lead_time_days = EXCLUDED.lead_time_days,
            min_days = EXCLUDED.min_days,
            target_months = EXCLUDED.target_months`
	if _, err := r.db.ExecContext(ctx, query, s.SKU, s.LeadTimeDays, s.MinDays, s.TargetMonths); err != nil {
		return fmt.Errorf("failed to upsert sku settings: %w", err)
	}
	return nil
}
