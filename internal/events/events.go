// Package events publishes content lifecycle events so downstream consumers
// (report generators, notification bots) can react to dashboard changes.
package events

import (
	"context"
	"time"
)

// Event types published on the content subject.
const (
	TypeContentReloaded = "content.reloaded"
	TypeSnapshotSaved   = "snapshot.saved"
)

// ContentEvent describes a change to the published insight set.
type ContentEvent struct {
	Type      string    `json:"type"`
	Insights  int       `json:"insights"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits content events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event ContentEvent) error
	Close()
}

// NoopPublisher discards all events. Used when events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event ContentEvent) error { return nil }
func (NoopPublisher) Close()                                                {}
