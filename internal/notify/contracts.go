package notify

import (
	"context"

	"service-dispatch/internal/service/dispatch"
)

// Publisher delivers dispatch events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e dispatch.Event) error
}

type counter interface {
	Inc()
}
