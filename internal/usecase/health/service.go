package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/stationview/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const upstreamCheck = "upstream"

// defaultTimeout bounds each probe when the caller has no deadline.
const defaultTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	upstream UpstreamPinger
	timeout  time.Duration
}

// New creates a Service.
func New(upstream UpstreamPinger) *Service {
	return &Service{upstream: upstream, timeout: defaultTimeout}
}

// WithTimeout overrides the per-probe timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check probes every component.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 1)

	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.upstream.Ping(pctx); err != nil {
		logger.FromContext(ctx).Warn("health check failed", zap.String("check", upstreamCheck), zap.Error(err))
		checks[upstreamCheck] = CheckError
	} else {
		checks[upstreamCheck] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}
