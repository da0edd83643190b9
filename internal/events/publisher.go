package events

import "context"

// Publisher delivers rewrite events.
type Publisher interface {
	Publish(ctx context.Context, event *RewriteEvent) error
	Close() error
}

// NoopPublisher drops every event (default when no NATS URL is configured).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *RewriteEvent) error { return nil }
func (NoopPublisher) Close() error                                 { return nil }
