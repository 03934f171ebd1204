package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/rxndb-explorer/internal/config"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

type captureWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishTableReloaded(t *testing.T) {
	w := &captureWriter{}
	p := NewProducerWithWriter(w, logging.NewNopLogger())

	payload := TableReloadedPayload{
		Rows:       42,
		Phases:     17,
		Source:     "yaml",
		ReloadedAt: time.Now().UTC(),
	}
	require.NoError(t, p.PublishTableReloaded(context.Background(), payload))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicTableReloaded, msg.Topic)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, TopicTableReloaded, env.EventType)
	assert.Equal(t, "rxndb-explorer", env.Source)
	assert.Equal(t, "v1", env.SchemaVersion)
	assert.Equal(t, string(msg.Key), env.EventID)

	var got TableReloadedPayload
	require.NoError(t, env.DecodePayload(&got))
	assert.Equal(t, 42, got.Rows)
	assert.Equal(t, "yaml", got.Source)
}

func TestProducer_PublishGroupingRebuilt(t *testing.T) {
	w := &captureWriter{}
	p := NewProducerWithWriter(w, logging.NewNopLogger())

	require.NoError(t, p.PublishGroupingRebuilt(context.Background(), GroupingRebuiltPayload{
		Method: "and",
		Groups: 7,
		Rows:   42,
	}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, TopicGroupingRebuilt, w.msgs[0].Topic)
}

func TestProducer_WriteFailure(t *testing.T) {
	w := &captureWriter{err: assert.AnError}
	p := NewProducerWithWriter(w, logging.NewNopLogger())

	err := p.PublishTableReloaded(context.Background(), TableReloadedPayload{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePublishFailed, errors.GetCode(err))
}

func TestProducer_Close(t *testing.T) {
	w := &captureWriter{}
	p := NewProducerWithWriter(w, logging.NewNopLogger())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.PublishTableReloaded(context.Background(), TableReloadedPayload{})
	assert.ErrorIs(t, err, ErrProducerClosed)

	// Close is idempotent.
	assert.NoError(t, p.Close())
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(config.KafkaConfig{}, logging.NewNopLogger())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.GetCode(err))
}

func TestEventEnvelope_DecodeEmptyPayload(t *testing.T) {
	env := &EventEnvelope{}
	var out TableReloadedPayload
	assert.Error(t, env.DecodePayload(&out))
}
