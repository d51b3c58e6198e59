package events

import "context"

// EventPublisher is the interface for publishing archive events.
type EventPublisher interface {
	PublishArchived(ctx context.Context, event *ArchivedEvent) error
}

// NoOpPublisher is an EventPublisher that does nothing (for runs without COMMS).
type NoOpPublisher struct{}

// PublishArchived is a no-op.
func (p *NoOpPublisher) PublishArchived(_ context.Context, _ *ArchivedEvent) error {
	return nil
}

// CallbackPublisher is an EventPublisher that calls a callback function (for testing).
type CallbackPublisher struct {
	callback func(ctx context.Context, event *ArchivedEvent) error
}

// NewCallbackPublisher creates a new CallbackPublisher.
func NewCallbackPublisher(cb func(ctx context.Context, event *ArchivedEvent) error) *CallbackPublisher {
	return &CallbackPublisher{callback: cb}
}

// PublishArchived calls the callback.
func (p *CallbackPublisher) PublishArchived(ctx context.Context, event *ArchivedEvent) error {
	return p.callback(ctx, event)
}
