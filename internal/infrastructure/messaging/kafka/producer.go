package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/rxndb-explorer/internal/config"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

var (
	ErrProducerClosed = errors.New(errors.ErrCodeInternal, "kafka producer is closed")
	ErrPublishFailed  = errors.New(errors.ErrCodePublishFailed, "event publish failed")
)

// eventSource identifies this service in event envelopes.
const eventSource = "rxndb-explorer"

// Writer abstracts kafka.Writer so tests can capture published messages.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits explorer lifecycle events.  Implementations must be safe
// for concurrent use.
type Publisher interface {
	PublishTableReloaded(ctx context.Context, payload TableReloadedPayload) error
	PublishGroupingRebuilt(ctx context.Context, payload GroupingRebuiltPayload) error
	Close() error
}

// Producer publishes events through a kafka-go writer.
type Producer struct {
	writer Writer
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer builds a producer connected to the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "kafka brokers are not configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:  kafka.Snappy,
	}
	return &Producer{writer: writer, logger: log}, nil
}

// NewProducerWithWriter builds a producer over an existing writer.
func NewProducerWithWriter(w Writer, log logging.Logger) *Producer {
	return &Producer{writer: w, logger: log}
}

// PublishTableReloaded emits a TopicTableReloaded event.
func (p *Producer) PublishTableReloaded(ctx context.Context, payload TableReloadedPayload) error {
	return p.publish(ctx, TopicTableReloaded, payload)
}

// PublishGroupingRebuilt emits a TopicGroupingRebuilt event.
func (p *Producer) PublishGroupingRebuilt(ctx context.Context, payload GroupingRebuiltPayload) error {
	return p.publish(ctx, TopicGroupingRebuilt, payload)
}

func (p *Producer) publish(ctx context.Context, topic string, payload interface{}) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	env, err := NewEventEnvelope(topic, eventSource, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(env.EventID),
		Value: data,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("event publish failed",
			logging.String("topic", topic), logging.Err(err))
		return ErrPublishFailed.WithCause(err)
	}
	p.logger.Debug("event published",
		logging.String("topic", topic), logging.String("event_id", env.EventID))
	return nil
}

// Close shuts the producer down.  Further publishes fail with
// ErrProducerClosed.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}

// NopPublisher discards every event.  It serves deployments without
// configured brokers.
type NopPublisher struct{}

func (NopPublisher) PublishTableReloaded(context.Context, TableReloadedPayload) error   { return nil }
func (NopPublisher) PublishGroupingRebuilt(context.Context, GroupingRebuiltPayload) error { return nil }
func (NopPublisher) Close() error                                                        { return nil }
