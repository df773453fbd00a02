package bus

import (
	"context"
	"time"
)

const (
	DefaultChannel = "rsvp.invalidate"

	KindStatsInvalidate = "stats.invalidate"
)

// Event tells other instances that data behind a cached view changed.
type Event struct {
	Kind       string    `json:"kind"`
	Collection string    `json:"collection,omitempty"`
	Source     string    `json:"source"`
	At         time.Time `json:"at"`
}

type Bus interface {
	// Publish stamps evt with this instance's id and broadcasts it.
	Publish(ctx context.Context, evt Event) error
	// StartForwarder delivers events published by other instances to onEvent
	// until ctx is done.
	StartForwarder(ctx context.Context, onEvent func(Event)) error
	InstanceID() string
	Close() error
}
