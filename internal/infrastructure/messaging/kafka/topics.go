// Package kafka publishes the explorer's lifecycle events.  Downstream
// consumers (notebook pipelines, cache warmers) react to table reloads and
// grouping rebuilds; the explorer itself never consumes.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

const (
	// TopicTableReloaded announces that the reaction table was reloaded
	// from its backing store and all derived structures were rebuilt.
	TopicTableReloaded = "rxndb.table.reloaded"
	// TopicGroupingRebuilt announces a similarity-grouping rebuild, for
	// example after the combination method changed.
	TopicGroupingRebuilt = "rxndb.grouping.rebuilt"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// TableReloadedPayload describes a completed table reload.
type TableReloadedPayload struct {
	Rows       int       `json:"rows"`
	Phases     int       `json:"phases"`
	Source     string    `json:"source"`
	ReloadedAt time.Time `json:"reloaded_at"`
}

// GroupingRebuiltPayload describes a completed grouping rebuild.
type GroupingRebuiltPayload struct {
	Method    string    `json:"method"`
	Groups    int       `json:"groups"`
	Rows      int       `json:"rows"`
	RebuiltAt time.Time `json:"rebuilt_at"`
}

// NewEventEnvelope wraps a payload in a versioned envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// DecodePayload unmarshals the envelope payload into target.
func (e *EventEnvelope) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return errors.New(errors.ErrCodeSerialization, "event envelope has no payload")
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode event payload")
	}
	return nil
}
