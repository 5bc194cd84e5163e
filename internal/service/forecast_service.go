package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"countcast-backend/internal/cache"
	"countcast-backend/internal/domain"
	"countcast-backend/internal/export"
	"countcast-backend/internal/forecast"
	"countcast-backend/internal/repository"
	"countcast-backend/internal/storage"
)

// ForecastService runs the forecast engine over the stored collections.
// Reports are pure functions of the data plus the reference date, so the
// planner and lead-time reports are cached until the next mutation.
type ForecastService struct {
	repo      repository.InventoryRepository
	cache     cache.ReportCache
	store     storage.ObjectStorage
	exportDir string
}

func NewForecastService(repo repository.InventoryRepository, reportCache cache.ReportCache, store storage.ObjectStorage, exportDir string) *ForecastService {
	return &ForecastService{
		repo:      repo,
		cache:     reportCache,
		store:     store,
		exportDir: exportDir,
	}
}

// GetPlanner computes the replenishment forecast for every known SKU as of
// the given reference date.
func (s *ForecastService) GetPlanner(ctx context.Context, today time.Time) ([]domain.PlannerRow, error) {
	day := forecast.DateOnly(today)

	if rows, ok, err := s.cache.GetPlanner(ctx, day); err != nil {
		log.Warn().Err(err).Msg("planner cache read failed, recomputing")
	} else if ok {
		return rows, nil
	}

	snapshots, orders, settings, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := forecast.Plan(forecast.PlannerInput{
		Snapshots: snapshots,
		Orders:    orders,
		Settings:  settings,
		Today:     day,
	})

	if err := s.cache.SetPlanner(ctx, day, rows); err != nil {
		log.Warn().Err(err).Msg("planner cache write failed")
	}
	return rows, nil
}

// GetTrend computes the velocity history for one SKU over the requested
// window. Trend responses are not cached: the query space (sku x window) is
// too wide to be worth invalidation tracking.
func (s *ForecastService) GetTrend(ctx context.Context, sku string, q forecast.TrendQuery) (domain.TrendReport, error) {
	snapshots, err := s.repo.ListSnapshots(ctx)
	if err != nil {
		return domain.TrendReport{}, fmt.Errorf("failed to list snapshots: %w", err)
	}
	orders, err := s.repo.ListPurchaseOrders(ctx)
	if err != nil {
		return domain.TrendReport{}, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	return forecast.Trend(sku, snapshots, orders, q), nil
}

// GetLeadTime computes vendor lead-time and ETA-variance statistics from
// received purchase orders.
func (s *ForecastService) GetLeadTime(ctx context.Context) (*domain.LeadTimeReport, error) {
	if report, ok, err := s.cache.GetLeadTime(ctx); err != nil {
		log.Warn().Err(err).Msg("lead-time cache read failed, recomputing")
	} else if ok {
		return report, nil
	}

	orders, err := s.repo.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	report := forecast.AnalyzeLeadTimes(orders)

	if err := s.cache.SetLeadTime(ctx, &report); err != nil {
		log.Warn().Err(err).Msg("lead-time cache write failed")
	}
	return &report, nil
}

// ExportPlannerCSV renders the planner report to CSV, writes it under the
// export directory, and mirrors it to object storage when configured.
// It returns the CSV payload and the suggested filename.
func (s *ForecastService) ExportPlannerCSV(ctx context.Context, today time.Time) ([]byte, string, error) {
	rows, err := s.GetPlanner(ctx, today)
	if err != nil {
		return nil, "", err
	}

	payload, err := export.PlannerCSV(rows)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render planner csv: %w", err)
	}

	filename := fmt.Sprintf("planner_%s.csv", forecast.DateOnly(today).Format(domain.DateLayout))
	s.persistExport(ctx, filename, payload)
	return payload, filename, nil
}

// ExportLeadTimeCSV renders the lead-time report to CSV and persists it the
// same way as the planner export.
func (s *ForecastService) ExportLeadTimeCSV(ctx context.Context, today time.Time) ([]byte, string, error) {
	report, err := s.GetLeadTime(ctx)
	if err != nil {
		return nil, "", err
	}

	payload, err := export.LeadTimeCSV(*report)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render lead-time csv: %w", err)
	}

	filename := fmt.Sprintf("leadtime_%s.csv", forecast.DateOnly(today).Format(domain.DateLayout))
	s.persistExport(ctx, filename, payload)
	return payload, filename, nil
}

// persistExport writes the report locally and uploads it when object storage
// is configured. Persistence failures are logged, not returned: the caller
// still gets the payload for download.
func (s *ForecastService) persistExport(ctx context.Context, filename string, payload []byte) {
	if s.exportDir != "" {
		if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
			log.Warn().Err(err).Str("dir", s.exportDir).Msg("failed to create export directory")
		} else {
			path := filepath.Join(s.exportDir, filename)
			if err := os.WriteFile(path, payload, 0o644); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("failed to write export file")
			}
		}
	}

	if s.store != nil {
		key := "exports/" + filename
		if err := s.store.UploadObject(ctx, key, "text/csv", payload); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to upload export")
		} else {
			log.Info().Str("key", key).Msg("export uploaded")
		}
	}
}

func (s *ForecastService) loadAll(ctx context.Context) ([]domain.Snapshot, []domain.PurchaseOrder, []domain.SkuSettings, error) {
	snapshots, err := s.repo.ListSnapshots(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	orders, err := s.repo.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	settings, err := s.repo.ListSettings(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return snapshots, orders, settings, nil
}
