package service

import (
	"context"

	"github.com/fintrack-app/fintrack-api/internal/domain"
	"github.com/fintrack-app/fintrack-api/internal/infra/observability"
)

// Pinger is the slice of the store the health service needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports liveness and an operations snapshot.
type HealthService struct {
	store   Pinger
	metrics *observability.Metrics
}

// NewHealthService creates a new health service.
func NewHealthService(store Pinger, metrics *observability.Metrics) *HealthService {
	return &HealthService{store: store, metrics: metrics}
}

// Check pings the store and reports overall status.
func (s *HealthService) Check(ctx context.Context) *domain.HealthStatus {
	status := &domain.HealthStatus{Status: "ok", Store: "ok"}
	if err := s.store.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.Store = err.Error()
	}
	return status
}

// MetricsSummary returns the JSON ops snapshot.
func (s *HealthService) MetricsSummary() *domain.MetricsSummary {
	return s.metrics.Summary()
}
