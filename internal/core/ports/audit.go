package ports

import (
	"context"

	"github.com/therapyplatform/practice-system/internal/core/domain"
)

// AuditRepository defines persistence for the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService processes a single audit event (called by dispatcher workers).
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events without blocking the caller. The queue
// dispatcher implements it; a nil-safe no-op is used in tests.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// AnalyticsService computes practice-wide aggregates for dashboards.
type AnalyticsService interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}
