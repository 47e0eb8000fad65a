// Package jobs hosts the asynq worker scaffolding and background tasks.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup precomputes the analytics report for active tenants.
	TaskReportWarmup = "report:warmup"
)

// ReportWarmupPayload scopes one warmup run.
type ReportWarmupPayload struct {
	// TenantID narrows the warmup to one tenant; empty warms every
	// active tenant.
	TenantID string `json:"tenantId,omitempty"`
}

// NewReportWarmupTask constructs the warmup task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
