package health

import "context"

// CachePinger checks lookup cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks that content upstreams answer.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context) error
}
