package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantiere-erp/cantiere-erp/internal/analytics"
)

// ReportWarmupJob pre-populates the analytics report cache so the first
// dashboard hit of the day is served warm.
type ReportWarmupJob struct {
	Service *analytics.Service
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(service *analytics.Service, pool *pgxpool.Pool, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{
		Service: service,
		Pool:    pool,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks, warming the current calendar month
// for every active tenant.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger()
	logger.Info("starting report warmup")

	tenants, err := j.fetchTenants(ctx, payload.TenantID)
	if err != nil {
		logger.Error("load warmup tenants", slog.Any("error", err))
		return err
	}
	if len(tenants) == 0 {
		logger.Info("no tenants discovered for warmup")
		return nil
	}

	now := j.now()
	warmed := 0
	for _, tenantID := range tenants {
		if err := j.warmTenant(ctx, tenantID, now); err != nil {
			logger.Error("warm tenant", slog.String("tenant_id", tenantID.String()), slog.Any("error", err))
			return err
		}
		warmed++
	}

	logger.Info("completed report warmup", slog.Int("tenants", warmed), slog.Duration("duration", time.Since(now)))
	return nil
}

func (j *ReportWarmupJob) warmTenant(ctx context.Context, tenantID uuid.UUID, now time.Time) error {
	if j.Service == nil {
		return nil
	}
	// Bound each tenant so one slow snapshot cannot stall the whole run.
	tenantCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	filters := analytics.AnalyticsFilters{
		DateFrom: monthStart,
		DateTo:   monthStart.AddDate(0, 1, -1),
	}
	_, err := j.Service.GetAnalyticsData(tenantCtx, tenantID, filters)
	return err
}

func (j *ReportWarmupJob) fetchTenants(ctx context.Context, only string) ([]uuid.UUID, error) {
	if only != "" {
		tenantID, err := uuid.Parse(only)
		if err != nil {
			return nil, err
		}
		return []uuid.UUID{tenantID}, nil
	}
	if j.Pool == nil {
		return nil, errors.New("report warmup: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `SELECT id FROM tenants WHERE active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants := make([]uuid.UUID, 0)
	for rows.Next() {
		var tenantID uuid.UUID
		if err := rows.Scan(&tenantID); err != nil {
			return nil, err
		}
		tenants = append(tenants, tenantID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportWarmup))
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
