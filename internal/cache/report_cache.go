package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"countcast-backend/internal/config"
	"countcast-backend/internal/domain"
)

const (
	reportKeyPrefix     = "forecast:report"
	reportScanBatchSize = 100
)

// ReportCache stores computed forecast reports for their short TTL. The
// engine itself always recomputes from scratch; this only spares repeated
// identical requests between mutations, and every write path invalidates.
type ReportCache interface {
	GetPlanner(ctx context.Context, day time.Time) ([]domain.PlannerRow, bool, error)
	SetPlanner(ctx context.Context, day time.Time, rows []domain.PlannerRow) error
	GetLeadTime(ctx context.Context) (*domain.LeadTimeReport, bool, error)
	SetLeadTime(ctx context.Context, report *domain.LeadTimeReport) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetPlanner(ctx context.Context, day time.Time) ([]domain.PlannerRow, bool, error) {
	var rows []domain.PlannerRow
	ok, err := c.get(ctx, plannerKey(day), &rows)
	return rows, ok, err
}

func (c *redisReportCache) SetPlanner(ctx context.Context, day time.Time, rows []domain.PlannerRow) error {
	return c.set(ctx, plannerKey(day), rows)
}

func (c *redisReportCache) GetLeadTime(ctx context.Context) (*domain.LeadTimeReport, bool, error) {
	var report domain.LeadTimeReport
	ok, err := c.get(ctx, leadTimeKey(), &report)
	if !ok || err != nil {
		return nil, ok, err
	}
	return &report, true, nil
}

func (c *redisReportCache) SetLeadTime(ctx context.Context, report *domain.LeadTimeReport) error {
	return c.set(ctx, leadTimeKey(), report)
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, reportKeyPrefix, reportScanBatchSize)
}

func (c *redisReportCache) get(ctx context.Context, key string, out interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("decode report cache: %w", err)
	}
	return true, nil
}

func (c *redisReportCache) set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode report cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopReportCache) GetPlanner(ctx context.Context, day time.Time) ([]domain.PlannerRow, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetPlanner(ctx context.Context, day time.Time, rows []domain.PlannerRow) error {
	return nil
}

func (n *noopReportCache) GetLeadTime(ctx context.Context) (*domain.LeadTimeReport, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetLeadTime(ctx context.Context, report *domain.LeadTimeReport) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func plannerKey(day time.Time) string {
	sum := sha1.Sum([]byte("planner|" + day.Format(domain.DateLayout)))
	return fmt.Sprintf("%s:%s", reportKeyPrefix, hex.EncodeToString(sum[:]))
}

func leadTimeKey() string {
	sum := sha1.Sum([]byte("leadtime"))
	return fmt.Sprintf("%s:%s", reportKeyPrefix, hex.EncodeToString(sum[:]))
}
