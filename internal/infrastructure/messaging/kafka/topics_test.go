package kafka

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
)

func TestEventEnvelope_RoundTrip(t *testing.T) {
	payload := DiagnosisCompletedPayload{
		RunID:      "run-1",
		BusinessID: "biz-1",
		InputHash:  "00000000deadbeef",
		HealthBand: "established",
		Stage:      "growth",
	}

	env, err := NewEventEnvelope(TopicDiagnosisCompleted, sourceService, payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)
	assert.Equal(t, TopicDiagnosisCompleted, env.EventType)
	assert.False(t, env.Timestamp.IsZero())

	msg, err := env.ToMessage(TopicDiagnosisCompleted, payload.BusinessID)
	require.NoError(t, err)
	assert.Equal(t, []byte("biz-1"), msg.Key)
	assert.Equal(t, TopicDiagnosisCompleted, msg.Headers["event_type"])
	assert.Equal(t, sourceService, msg.Headers["source_service"])

	decoded, err := DecodeEnvelope(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, env.EventID, decoded.EventID)

	var got DiagnosisCompletedPayload
	require.NoError(t, decoded.DecodePayload(&got))
	assert.Equal(t, payload, got)
}

func TestDecodeEnvelope_Errors(t *testing.T) {
	_, err := DecodeEnvelope(nil)
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte("{broken"))
	assert.Error(t, err)
}

func TestEnvelope_TraceIDHeader(t *testing.T) {
	env, err := NewEventEnvelope(TopicDiagnosisRequested, sourceService, DiagnosisRequestedPayload{BusinessID: "biz-1"})
	require.NoError(t, err)
	env.TraceID = "trace-42"

	msg, err := env.ToMessage(TopicDiagnosisRequested, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, "trace-42", msg.Headers["trace_id"])
}

// fakeConn records admin calls.
type fakeConn struct {
	created    []kafkago.TopicConfig
	createErr  error
	partitions map[string][]kafkago.Partition
	closed     bool
}

func (f *fakeConn) CreateTopics(topics ...kafkago.TopicConfig) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, topics...)
	return nil
}

func (f *fakeConn) ReadPartitions(topics ...string) ([]kafkago.Partition, error) {
	if len(topics) == 0 {
		return nil, nil
	}
	return f.partitions[topics[0]], nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestTopicManager_CreateTopic(t *testing.T) {
	conn := &fakeConn{}
	m := &TopicManager{conn: conn, logger: logging.NewNopLogger()}

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name:              TopicDiagnosisCompleted,
		NumPartitions:     6,
		ReplicationFactor: 3,
		RetentionMs:       int64(7 * 24 * time.Hour / time.Millisecond),
	})
	require.NoError(t, err)
	require.Len(t, conn.created, 1)
	assert.Equal(t, TopicDiagnosisCompleted, conn.created[0].Topic)
	assert.Equal(t, 6, conn.created[0].NumPartitions)
	require.Len(t, conn.created[0].ConfigEntries, 1)
	assert.Equal(t, "retention.ms", conn.created[0].ConfigEntries[0].ConfigName)

	// Validation failures never reach the broker.
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "", NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(context.Background(), TopicConfig{Name: "x", NumPartitions: 0, ReplicationFactor: 1}))
}

func TestTopicManager_CreateTopic_ExistingTopicTolerated(t *testing.T) {
	conn := &fakeConn{
		createErr:  assert.AnError,
		partitions: map[string][]kafkago.Partition{"existing": {{Topic: "existing"}}},
	}
	m := &TopicManager{conn: conn, logger: logging.NewNopLogger()}

	err := m.CreateTopic(context.Background(), TopicConfig{Name: "existing", NumPartitions: 1, ReplicationFactor: 1})
	assert.NoError(t, err)

	err = m.CreateTopic(context.Background(), TopicConfig{Name: "missing", NumPartitions: 1, ReplicationFactor: 1})
	assert.Error(t, err)
}

func TestTopicManager_EnsureDefaultTopics(t *testing.T) {
	conn := &fakeConn{}
	m := &TopicManager{conn: conn, logger: logging.NewNopLogger()}

	require.NoError(t, m.EnsureDefaultTopics(context.Background()))
	assert.Len(t, conn.created, len(DefaultTopics()))

	require.NoError(t, m.Close())
	assert.True(t, conn.closed)
}

func TestDefaultTopics_CoverLifecycle(t *testing.T) {
	names := map[string]bool{}
	for _, tc := range DefaultTopics() {
		names[tc.Name] = true
		assert.Greater(t, tc.NumPartitions, 0)
		assert.Greater(t, tc.ReplicationFactor, 0)
	}
	assert.True(t, names[TopicDiagnosisRequested])
	assert.True(t, names[TopicDiagnosisCompleted])
	assert.True(t, names[TopicDiagnosisFailed])
	assert.True(t, names[TopicDeadLetter])
}

//Personal.AI order the ending
