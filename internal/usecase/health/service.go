package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the backend is unreachable.
	Unhealthy Status = "error"
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
	db       DBPinger
	indices  IndexChecker
	required []string
}

// New creates a Service. indices can be nil when no index is required.
func New(db DBPinger, indices IndexChecker, required ...string) *Service {
	return &Service{db: db, indices: indices, required: required}
}

// Check pings the backend, then checks every required index.
// A failed ping is Unhealthy; a missing index is Degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks["database"] = CheckOK

	status := Healthy
	if s.indices != nil {
		for _, name := range s.required {
			ok, err := s.indices.Exists(ctx, name)
			if err != nil || !ok {
				checks["index:"+name] = CheckError
				status = Degraded
				continue
			}
			checks["index:"+name] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
