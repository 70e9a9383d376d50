package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RetrieverChecker checks retrieval back end availability.
type RetrieverChecker interface {
	HealthCheck(ctx context.Context) error
}
