package entitysearch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
)

// Health status values.
const (
	StatusOK       = string(healthuc.Healthy)
	StatusDegraded = string(healthuc.Degraded)
	StatusError    = string(healthuc.Unhealthy)
)

// HealthStatus is the backend health report. Checks maps a component
// ("database", "index:<name>") to "ok" or "error".
type HealthStatus struct {
	Status string
	Checks map[string]string
}

// Failing returns the failing components in name order.
func (h HealthStatus) Failing() []string {
	var out []string
	for k, v := range h.Checks {
		if v != string(healthuc.CheckOK) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Health pings the backend and checks indices. Without names no index is
// checked.
func (c *Client) Health(ctx context.Context, indices ...string) HealthStatus {
	svc := c.healthSvc
	if len(indices) > 0 && c.store != nil {
		svc = healthuc.New(c.store, c.indexSvc, indices...)
	}

	report := svc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}

// Ready returns an error naming the failing components unless the backend
// and every listed index are healthy.
func (c *Client) Ready(ctx context.Context, indices ...string) error {
	h := c.Health(ctx, indices...)
	if h.Status == StatusOK {
		return nil
	}
	return fmt.Errorf("entitysearch: %s: %s", h.Status, strings.Join(h.Failing(), ", "))
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
