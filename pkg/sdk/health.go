package convsearch

import "context"

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}

// Health checks the health of the store and the retrieval back end.
// Without a store option it reports only the back end, if it has a probe.
func (c *Client) Health(ctx context.Context) HealthStatus {
	if c.healthSvc == nil {
		return HealthStatus{Status: "ok", Checks: map[string]string{}}
	}
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
