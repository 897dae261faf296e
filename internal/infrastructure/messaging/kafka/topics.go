// Package kafka publishes and consumes the platform's diagnosis lifecycle
// events.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
)

// Topic constants.
const (
	TopicDiagnosisRequested = "diagnosis.requested"
	TopicDiagnosisCompleted = "diagnosis.completed"
	TopicDiagnosisFailed    = "diagnosis.failed"
	TopicProfileUpdated     = "profile.updated"
	TopicDocumentUploaded   = "document.uploaded"
	TopicDeadLetter         = "dead_letter.diagnosis"
)

// EventEnvelope standardizes event messages across topics.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Payload structs.

// DiagnosisRequestedPayload asks a worker to run the pipeline for a business.
type DiagnosisRequestedPayload struct {
	BusinessID  string    `json:"business_id"`
	RequestedBy string    `json:"requested_by,omitempty"`
	Force       bool      `json:"force,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// DiagnosisCompletedPayload announces a finished run so downstream consumers
// (indexer, report archiver, notifiers) can pick it up.
type DiagnosisCompletedPayload struct {
	RunID       string    `json:"run_id"`
	BusinessID  string    `json:"business_id"`
	InputHash   string    `json:"input_hash"`
	HealthBand  string    `json:"health_band"`
	Stage       string    `json:"business_stage"`
	GeneratedAt time.Time `json:"generated_at"`
}

// DiagnosisFailedPayload reports a pipeline failure.
type DiagnosisFailedPayload struct {
	BusinessID string    `json:"business_id"`
	ErrorCode  string    `json:"error_code"`
	Reason     string    `json:"reason"`
	FailedAt   time.Time `json:"failed_at"`
}

// ProfileUpdatedPayload signals that diagnosis inputs changed; the cached
// output for the business is stale.
type ProfileUpdatedPayload struct {
	BusinessID string    `json:"business_id"`
	Section    string    `json:"section"` // profile | financial | documents | behavior
	UpdatedAt  time.Time `json:"updated_at"`
}

// DocumentUploadedPayload signals a new evidence document.
type DocumentUploadedPayload struct {
	BusinessID   string    `json:"business_id"`
	DocumentID   string    `json:"document_id"`
	DocumentType string    `json:"document_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// NewEventEnvelope wraps a payload in a versioned envelope.
func NewEventEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
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
		return nil
	}
	return json.Unmarshal(e.Payload, target)
}

// ToMessage renders the envelope as a producer message with routing headers.
// The key keeps all events for one business in partition order.
func (e *EventEnvelope) ToMessage(topic, key string) (*ProducerMessage, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	headers := map[string]string{
		"event_type":     e.EventType,
		"source_service": e.Source,
		"schema_version": e.SchemaVersion,
	}
	if e.TraceID != "" {
		headers["trace_id"] = e.TraceID
	}
	return &ProducerMessage{
		Topic:     topic,
		Key:       []byte(key),
		Value:     val,
		Headers:   headers,
		Timestamp: e.Timestamp,
	}, nil
}

// DecodeEnvelope parses a consumed message value back into an envelope.
func DecodeEnvelope(value []byte) (*EventEnvelope, error) {
	if len(value) == 0 {
		return nil, errors.NewValidation("empty message value")
	}
	env := &EventEnvelope{}
	if err := json.Unmarshal(value, env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal envelope")
	}
	return env, nil
}

// TopicConfig describes one topic for provisioning.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager provisions topics at startup when auto-creation is enabled.
type TopicManager struct {
	conn   ConnInterface
	logger logging.Logger
}

// NewTopicManager dials the first broker for admin operations.
func NewTopicManager(brokers []string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.NewValidation("brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to dial kafka")
	}
	return &TopicManager{conn: conn, logger: logger}, nil
}

// CreateTopic creates one topic, tolerating an already-existing topic.
func (m *TopicManager) CreateTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.NewValidation("topic name required")
	}
	if cfg.NumPartitions <= 0 || cfg.ReplicationFactor <= 0 {
		return errors.NewValidation("partitions and replication factor must be > 0")
	}

	kCfg := kafka.TopicConfig{
		Topic:             cfg.Name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = []kafka.ConfigEntry{
			{ConfigName: "retention.ms", ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs)},
		}
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
			return nil
		}
		return err
	}
	m.logger.Info("Topic created", logging.String("topic", cfg.Name))
	return nil
}

// TopicExists checks whether a topic has at least one partition.
func (m *TopicManager) TopicExists(ctx context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

// EnsureDefaultTopics provisions every platform topic.
func (m *TopicManager) EnsureDefaultTopics(ctx context.Context) error {
	for _, topic := range DefaultTopics() {
		if err := m.CreateTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the admin connection.
func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics returns the platform topic set.
func DefaultTopics() []TopicConfig {
	const week = 7 * 24 * 3600 * 1000
	return []TopicConfig{
		{Name: TopicDiagnosisRequested, NumPartitions: 6, ReplicationFactor: 3, RetentionMs: week},
		{Name: TopicDiagnosisCompleted, NumPartitions: 6, ReplicationFactor: 3, RetentionMs: 4 * week},
		{Name: TopicDiagnosisFailed, NumPartitions: 3, ReplicationFactor: 3, RetentionMs: 4 * week},
		{Name: TopicProfileUpdated, NumPartitions: 6, ReplicationFactor: 3, RetentionMs: week},
		{Name: TopicDocumentUploaded, NumPartitions: 3, ReplicationFactor: 3, RetentionMs: week},
		{Name: TopicDeadLetter, NumPartitions: 3, ReplicationFactor: 3, RetentionMs: 4 * week},
	}
}

//Personal.AI order the ending
