package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
)

var ErrConsumerClosed = errors.New(errors.ErrCodeInternal, "consumer closed")

// Handler processes one decoded event.  Returning an error triggers retries
// and finally the dead-letter topic; the offset is committed either way so a
// poison message cannot wedge the partition.
type Handler func(ctx context.Context, env *EventEnvelope) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerConfig holds consumer tunables.
type ConsumerConfig struct {
	Brokers         []string
	GroupID         string
	Topic           string
	MinBytes        int
	MaxBytes        int
	MaxWait         time.Duration
	StartOffset     string // "earliest" | "latest"
	HandlerRetries  int
	HandlerBackoff  time.Duration
	DeadLetterTopic string
}

// Consumer runs a fetch/handle/commit loop for one topic within a group.
type Consumer struct {
	reader     ReaderInterface
	producer   *Producer // dead-letter publisher, may be nil
	config     ConsumerConfig
	logger     logging.Logger
	handler    Handler
	closed     atomic.Bool
	handled    atomic.Int64
	deadLetter atomic.Int64
}

// NewConsumer creates a Consumer for one topic.  The producer is used only
// for dead-lettering and may be nil to disable it.
func NewConsumer(cfg ConsumerConfig, handler Handler, producer *Producer, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.NewValidation("brokers required")
	}
	if cfg.GroupID == "" || cfg.Topic == "" {
		return nil, errors.NewValidation("group ID and topic required")
	}
	if handler == nil {
		return nil, errors.NewValidation("handler required")
	}
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 << 20
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = time.Second
	}
	if cfg.HandlerRetries == 0 {
		cfg.HandlerRetries = 3
	}
	if cfg.HandlerBackoff == 0 {
		cfg.HandlerBackoff = time.Second
	}

	startOffset := kafka.FirstOffset
	if cfg.StartOffset == "latest" {
		startOffset = kafka.LastOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: startOffset,
	})

	return &Consumer{
		reader:   reader,
		producer: producer,
		config:   cfg,
		logger:   logger.Named("consumer").With(logging.String("topic", cfg.Topic)),
		handler:  handler,
	}, nil
}

// NewConsumerWithReader wraps an existing reader (for testing).
func NewConsumerWithReader(r ReaderInterface, cfg ConsumerConfig, handler Handler, producer *Producer, logger logging.Logger) *Consumer {
	return &Consumer{
		reader:   r,
		producer: producer,
		config:   cfg,
		logger:   logger,
		handler:  handler,
	}
}

// Run consumes until the context is cancelled or the consumer is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if c.closed.Load() {
			return ErrConsumerClosed
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if c.closed.Load() {
				return ErrConsumerClosed
			}
			return errors.Wrap(err, errors.ErrCodeConsumeFailed, "failed to fetch message")
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("Failed to commit offset", logging.Err(err))
		}
	}
}

// process decodes and handles one message with retries, dead-lettering when
// the retry budget is exhausted.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	env, err := DecodeEnvelope(msg.Value)
	if err != nil {
		c.logger.Error("Undecodable message, dead-lettering", logging.Err(err))
		c.sendToDeadLetter(ctx, msg, err)
		return
	}

	var handleErr error
	for attempt := 0; attempt <= c.config.HandlerRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.config.HandlerBackoff):
			}
		}
		if handleErr = c.handler(ctx, env); handleErr == nil {
			c.handled.Add(1)
			return
		}
		c.logger.Warn("Handler failed",
			logging.String("event_id", env.EventID),
			logging.Int("attempt", attempt+1),
			logging.Err(handleErr),
		)
	}

	c.sendToDeadLetter(ctx, msg, handleErr)
}

func (c *Consumer) sendToDeadLetter(ctx context.Context, msg kafka.Message, cause error) {
	c.deadLetter.Add(1)
	if c.producer == nil || c.config.DeadLetterTopic == "" {
		return
	}

	dlq := &ProducerMessage{
		Topic: c.config.DeadLetterTopic,
		Key:   msg.Key,
		Value: msg.Value,
		Headers: map[string]string{
			"origin_topic": c.config.Topic,
			"error":        cause.Error(),
		},
	}
	if err := c.producer.Publish(ctx, dlq); err != nil {
		c.logger.Error("Failed to dead-letter message", logging.Err(err))
	}
}

// Handled returns the count of successfully handled messages.
func (c *Consumer) Handled() int64 { return c.handled.Load() }

// DeadLettered returns the count of dead-lettered messages.
func (c *Consumer) DeadLettered() int64 { return c.deadLetter.Load() }

// Close stops the consumer.  Safe to call more than once.
func (c *Consumer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.reader.Close()
}

//Personal.AI order the ending
