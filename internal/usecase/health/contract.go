package health

import "context"

// UpstreamPinger checks that the upstream dataset endpoint answers.
type UpstreamPinger interface {
	Ping(ctx context.Context) error
}
