package providers

import (
	"context"

	"github.com/harborcare/opdflow/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// patient-flow events
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *entities.QueueEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.QueueEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelQueueUpdates is the channel carrying every queue event
	EventChannelQueueUpdates = "queue:updates"

	// EventChannelDoctorPrefix is the prefix for doctor-specific channels
	EventChannelDoctorPrefix = "doctor:"
)

// GetDoctorChannel returns the channel name for a specific doctor's queue
func GetDoctorChannel(doctorID string) string {
	return EventChannelDoctorPrefix + doctorID
}
