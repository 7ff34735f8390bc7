package health

import "context"

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

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache    CachePinger
	backend  BackendChecker
	datasets DatasetChecker
}

// New creates a Service. Any component can be nil; nil components are
// skipped (the keyword cache in particular is optional).
func New(cache CachePinger, backend BackendChecker, datasets DatasetChecker) *Service {
	return &Service{cache: cache, backend: backend, datasets: datasets}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.cache != nil {
		checks["cache"] = toResult(s.cache.Ping(ctx))
	}
	if s.backend != nil {
		checks["backend"] = toResult(s.backend.HealthCheck(ctx))
	}
	if s.datasets != nil {
		checks["datasets"] = toResult(s.datasets.CheckDatasets(ctx))
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

func toResult(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
