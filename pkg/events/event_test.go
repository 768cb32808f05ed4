package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Status string `json:"status"`
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()

	before := time.Now().UTC()
	event, err := NewBaseEvent("triage.sample", aggregateID, "Recommendation", samplePayload{Status: "NORMAL"})
	after := time.Now().UTC()
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "triage.sample", event.EventType())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "Recommendation", event.AggregateType())
	assert.JSONEq(t, `{"status":"NORMAL"}`, string(event.Payload()))
	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
}

func TestNewBaseEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewBaseEvent("triage.sample", uuid.New(), "Recommendation", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "triage.sample")
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestMarshalEnvelope(t *testing.T) {
	event, err := NewBaseEvent("triage.sample", uuid.New(), "Recommendation", samplePayload{Status: "WARNING"})
	require.NoError(t, err)

	data, err := Marshal(event)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, event.EventID(), env.EventID)
	assert.Equal(t, "triage.sample", env.EventType)
	assert.Equal(t, event.AggregateID(), env.AggregateID)
	assert.JSONEq(t, `{"status":"WARNING"}`, string(env.Payload))
}

func TestEventCollectorRecord(t *testing.T) {
	collector := &EventCollector{}
	e1, _ := NewBaseEvent("Event1", uuid.New(), "Aggregate", nil)
	e2, _ := NewBaseEvent("Event2", uuid.New(), "Aggregate", nil)

	collector.Record(e1)
	collector.Record(e2)

	events := collector.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "Event1", events[0].EventType())
	assert.Equal(t, "Event2", events[1].EventType())
	assert.Len(t, collector.Events(), 2, "Events must not clear the collector")
}

func TestEventCollectorClearEvents(t *testing.T) {
	collector := &EventCollector{}
	e1, _ := NewBaseEvent("Event1", uuid.New(), "Aggregate", nil)
	collector.Record(e1)

	cleared := collector.ClearEvents()
	assert.Len(t, cleared, 1)
	assert.Empty(t, collector.Events())
	assert.Nil(t, collector.ClearEvents())
}
