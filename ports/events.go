package ports

//go:generate mockgen -source=events.go -destination=mocks/events_mock.go -package=mocks

import (
	"context"

	"github.com/layer-3/walletbridge/core"
)

// EventPublisher publishes session lifecycle events to other processes
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, event core.SessionEvent) error
}
