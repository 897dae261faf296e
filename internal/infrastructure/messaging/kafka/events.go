package kafka

import (
	"context"

	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// sourceService identifies this platform in event envelopes.
const sourceService = "sme-diagnostics"

// EventPublisher is the messaging contract the application layer depends on.
type EventPublisher interface {
	DiagnosisRequested(ctx context.Context, p DiagnosisRequestedPayload) error
	DiagnosisCompleted(ctx context.Context, p DiagnosisCompletedPayload) error
	DiagnosisFailed(ctx context.Context, p DiagnosisFailedPayload) error
}

// DiagnosisEvents publishes diagnosis lifecycle events through a Producer.
type DiagnosisEvents struct {
	producer *Producer
}

var _ EventPublisher = (*DiagnosisEvents)(nil)

// NewDiagnosisEvents wires the typed publisher.
func NewDiagnosisEvents(producer *Producer) *DiagnosisEvents {
	return &DiagnosisEvents{producer: producer}
}

func (e *DiagnosisEvents) publish(ctx context.Context, topic, key string, payload interface{}) error {
	env, err := NewEventEnvelope(topic, sourceService, payload)
	if err != nil {
		return err
	}
	return e.producer.PublishEnvelope(ctx, topic, key, env)
}

// DiagnosisRequested enqueues a diagnosis for asynchronous execution.
func (e *DiagnosisEvents) DiagnosisRequested(ctx context.Context, p DiagnosisRequestedPayload) error {
	if p.BusinessID == "" {
		return errors.NewValidation("business ID required")
	}
	return e.publish(ctx, TopicDiagnosisRequested, p.BusinessID, p)
}

// DiagnosisCompleted announces a persisted run.
func (e *DiagnosisEvents) DiagnosisCompleted(ctx context.Context, p DiagnosisCompletedPayload) error {
	if p.RunID == "" || p.BusinessID == "" {
		return errors.NewValidation("run ID and business ID required")
	}
	return e.publish(ctx, TopicDiagnosisCompleted, p.BusinessID, p)
}

// DiagnosisFailed reports a pipeline failure.
func (e *DiagnosisEvents) DiagnosisFailed(ctx context.Context, p DiagnosisFailedPayload) error {
	if p.BusinessID == "" {
		return errors.NewValidation("business ID required")
	}
	return e.publish(ctx, TopicDiagnosisFailed, p.BusinessID, p)
}

// CompletedPayloadFromOutput builds the completion payload from a run's output.
func CompletedPayloadFromOutput(runID, businessID, inputHash string, out *dg.Output) DiagnosisCompletedPayload {
	return DiagnosisCompletedPayload{
		RunID:       runID,
		BusinessID:  businessID,
		InputHash:   inputHash,
		HealthBand:  string(out.HealthBand),
		Stage:       string(out.Stage),
		GeneratedAt: out.Meta.GeneratedAt,
	}
}

//Personal.AI order the ending
