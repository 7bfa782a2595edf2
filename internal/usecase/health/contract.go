package health

import "context"

// CorpusPinger checks corpus store availability.
type CorpusPinger interface {
	Ping(ctx context.Context) error
}

// OracleChecker checks generation provider availability.
type OracleChecker interface {
	HealthCheck(ctx context.Context) error
}
