package health

import "context"

// CachePinger checks keyword cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// BackendChecker checks generation backend availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}

// DatasetChecker verifies the configured dataset files are readable.
type DatasetChecker interface {
	CheckDatasets(ctx context.Context) error
}
