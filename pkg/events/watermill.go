// Package events carries item change notifications between the API and the worker
// over Watermill's SQL transport. It only runs against Postgres; the local SQLite store
// has no bus and relies on in-process listeners instead.
//
// All worker instances share one consumer group, so each change is handled once.
// Handlers must be idempotent: a failing handler is retried with backoff and then Nacked
// for redelivery.
//
// Trace context is carried in message metadata so worker spans join the API request trace.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/shoppinglist/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	outboxTopic     = "_shoppinglist_outbox"

	// MetadataVersion holds the aggregate version an event was produced at.
	MetadataVersion = "version"
)

// ErrNoForwarder is returned by StartForwarder on a bus built without an outbox.
var ErrNoForwarder = errors.New("events: bus has no outbox forwarder")

// Handler processes one message. Returning an error triggers a retry.
type Handler func(context.Context, *message.Message) error

// Options configures a bus.
type Options struct {
	// ConsumerGroup shares deliveries between instances. Empty means broadcast.
	ConsumerGroup string
	// Outbox routes publishes through a durable queue drained by StartForwarder.
	Outbox bool
}

// EventBus publishes and consumes item change messages stored in Postgres.
// It borrows the *sql.DB from pkg/database and never closes it.
type EventBus struct {
	db         *sql.DB
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
	opts       Options
	log        logger.Logger
	wg         sync.WaitGroup
}

// NewEventBus prepares a publisher and subscriber on db. Watermill creates its
// tables on first use.
func NewEventBus(db *sql.DB, opts Options, log logger.Logger) (*EventBus, error) {
	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(db, publisherConfig(true), wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := watermillsql.NewSubscriber(db, subscriberConfig(opts.ConsumerGroup), wlog)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{
		db:         db,
		publisher:  wrapOutbox(pub, opts.Outbox),
		subscriber: sub,
		opts:       opts,
		log:        log,
	}, nil
}

func publisherConfig(autoInit bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: autoInit,
	}
}

func subscriberConfig(group string) watermillsql.SubscriberConfig {
	return watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}
}

func wrapOutbox(pub message.Publisher, outbox bool) message.Publisher {
	if !outbox {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: outboxTopic})
}

// StartForwarder drains the outbox into the real topics until ctx ends.
// It returns once the forwarder is running.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.opts.Outbox {
		return ErrNoForwarder
	}
	if b.fwd != nil {
		return fmt.Errorf("events: forwarder already started")
	}

	wlog := &slogAdapter{log: b.log}

	outboxSub, err := watermillsql.NewSubscriber(b.db, subscriberConfig("shoppinglist-forwarder"), wlog)
	if err != nil {
		return fmt.Errorf("events: new outbox subscriber: %w", err)
	}
	targetPub, err := watermillsql.NewPublisher(b.db, publisherConfig(true), wlog)
	if err != nil {
		_ = outboxSub.Close()
		return fmt.Errorf("events: new target publisher: %w", err)
	}

	fwd, err := forwarder.NewForwarder(outboxSub, targetPub, wlog, forwarder.Config{ForwarderTopic: outboxTopic})
	if err != nil {
		_ = targetPub.Close()
		_ = outboxSub.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// TxPublisher returns a publisher that writes inside tx, so a row change and its
// event commit or roll back together. Tables must already exist.
func (b *EventBus) TxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), &slogAdapter{log: b.log})
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return wrapOutbox(pub, b.opts.Outbox), nil
}

// Publish sends msgs to topic with the trace context of ctx attached.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	return PublishWith(ctx, b.publisher, topic, msgs...)
}

// PublishWith injects the trace context of ctx into msgs and publishes them on pub.
func PublishWith(ctx context.Context, pub message.Publisher, topic string, msgs ...*message.Message) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
	if err := pub.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// NewEventMessage encodes payload as JSON under the given event id.
func NewEventMessage(eventID uuid.UUID, version int, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: encode payload: %w", err)
	}
	msg := message.NewMessage(eventID.String(), body)
	msg.Metadata.Set(MetadataVersion, fmt.Sprint(version))
	return msg, nil
}

// Subscribe runs handler for every message on topic until ctx ends.
// Errors that survive all retries are sent to the returned channel, which the caller
// must drain; when it is full they are logged and dropped.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)
	propagator := otel.GetTextMapPropagator()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := propagator.Extract(ctx, propagation.MapCarrier(msg.Metadata))

			if err := retryWithBackoff(msgCtx, msg, handler, maxRetries, retryBaseDelay, b.log); err != nil {
				msg.Nack()
				select {
				case errCh <- err:
				default:
					b.log.ErrorContext(msgCtx, "events: error channel full", "error", err, "topic", topic)
				}
				continue
			}
			msg.Ack()
		}
	}()

	return errCh, nil
}

func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	attempts int,
	delay time.Duration,
	log logger.Logger,
) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"message_uuid", msg.UUID,
			"attempt", attempt,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
}

// Ping checks the bus database.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits up to 30s for in-flight handlers and closes the
// publisher. The shared *sql.DB stays open.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		b.log.Error("events: timed out waiting for in-flight handlers")
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}

// slogAdapter lets Watermill log through logger.Logger.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
