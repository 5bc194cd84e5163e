package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"countcast-backend/internal/cache"
	"countcast-backend/internal/domain"
	"countcast-backend/internal/forecast"
	"countcast-backend/internal/repository"
)

// InventoryService fronts the raw collections. Every mutation invalidates
// the report cache: forecast reports are derived entirely from this data.
type InventoryService struct {
	repo  repository.InventoryRepository
	cache cache.ReportCache
}

func NewInventoryService(repo repository.InventoryRepository, reportCache cache.ReportCache) *InventoryService {
	return &InventoryService{repo: repo, cache: reportCache}
}

func (s *InventoryService) ListSnapshots(ctx context.Context) ([]domain.Snapshot, error) {
	return s.repo.ListSnapshots(ctx)
}

func (s *InventoryService) CreateSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if snapshot.Date.IsZero() {
		return fmt.Errorf("count date is required")
	}
	snapshot.Date = forecast.DateOnly(snapshot.Date)

	if err := s.repo.CreateSnapshot(ctx, snapshot); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *InventoryService) DeleteSnapshot(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSnapshot(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *InventoryService) ListPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	return s.repo.ListPurchaseOrders(ctx)
}

func (s *InventoryService) CreatePurchaseOrder(ctx context.Context, po *domain.PurchaseOrder) error {
	if po.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if po.OrderDate.IsZero() {
		return fmt.Errorf("order date is required")
	}
	if po.Qty <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	po.OrderDate = forecast.DateOnly(po.OrderDate)
	if !po.ETA.IsZero() {
		po.ETA = forecast.DateOnly(po.ETA)
	}
	if !po.ReceivedDate.IsZero() {
		po.ReceivedDate = forecast.DateOnly(po.ReceivedDate)
	}

	if err := s.repo.CreatePurchaseOrder(ctx, po); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *InventoryService) DeletePurchaseOrder(ctx context.Context, id int64) error {
	if err := s.repo.DeletePurchaseOrder(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SetReceipt toggles a purchase order's received state. Marking received
// stamps receivedOn (defaulting handled by the caller); clearing blanks the
// received date so the order drops back out of every report.
func (s *InventoryService) SetReceipt(ctx context.Context, id int64, received bool, receivedOn time.Time) (*domain.PurchaseOrder, error) {
	if received && receivedOn.IsZero() {
		return nil, fmt.Errorf("received date is required when marking received")
	}
	if received {
		receivedOn = forecast.DateOnly(receivedOn)
	} else {
		receivedOn = time.Time{}
	}

	po, err := s.repo.SetReceipt(ctx, id, received, receivedOn)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return po, nil
}

func (s *InventoryService) ListSettings(ctx context.Context) ([]domain.SkuSettings, error) {
	return s.repo.ListSettings(ctx)
}

func (s *InventoryService) UpsertSettings(ctx context.Context, settings *domain.SkuSettings) error {
	if settings.SKU == "" {
		return fmt.Errorf("sku is required")
	}
	if settings.LeadTimeDays < 0 || settings.MinDays < 0 || settings.TargetMonths < 0 {
		return fmt.Errorf("settings values must not be negative")
	}

	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *InventoryService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("report cache invalidation failed")
	}
}
