package repositories

import "context"

// HealthChecker is implemented by repositories backed by a connection that can be probed.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
