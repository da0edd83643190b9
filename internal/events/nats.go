package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
	"git.home.luguber.info/inful/doctoc/internal/logfields"
)

// NATSPublisher publishes rewrite events to a JetStream subject.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects to url and makes sure a stream captures subject.
func NewNATSPublisher(ctx context.Context, url, subject string) (*NATSPublisher, error) {
	if url == "" || subject == "" {
		return nil, errors.ValidationError("nats url and subject are required").
			WithContext("url", url).
			WithContext("subject", subject).
			Build()
	}

	conn, err := nats.Connect(url, nats.Name("doctoc"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEvents, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryEvents, "failed to create JetStream context").
			Build()
	}

	p := &NATSPublisher{conn: conn, js: js, subject: subject}
	if err := p.ensureStream(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("NATS publisher initialized", "url", url, logfields.Subject(subject))
	return p, nil
}

// ensureStream creates or updates the stream bound to the subject.
func (p *NATSPublisher) ensureStream(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName(p.subject),
		Description: "doctoc rewrite events",
		Subjects:    []string{p.subject},
		MaxAge:      7 * 24 * time.Hour,
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to create stream").
			WithContext("subject", p.subject).
			Build()
	}
	return nil
}

// Publish sends event. A zero Timestamp is set to now.
func (p *NATSPublisher) Publish(ctx context.Context, event *RewriteEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to marshal event").Build()
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryEvents, "failed to publish event").
			WithContext("subject", p.subject).
			WithContext("path", event.Path).
			Build()
	}

	slog.Debug("Published rewrite event", logfields.Path(event.Path), logfields.Subject(p.subject))
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// StreamName derives a JetStream stream name from a subject. Stream names
// may not contain dots, wildcards or whitespace.
func StreamName(subject string) string {
	r := strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")
	return strings.ToUpper(r.Replace(subject))
}
