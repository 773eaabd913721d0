package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	appctx "github.com/rickylandino/val-builder-api/pkg/context"
	"github.com/rickylandino/val-builder-api/pkg/metrics"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

// Publisher emits document events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes document events to Kafka
type Producer struct {
	writer messageWriter
	logger ectologger.Logger
	topic  string
	now    func() time.Time
}

// NewProducer creates a new Kafka producer
func NewProducer(config ProducerConfig, logger ectologger.Logger) (*Producer, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if config.Topic == "" {
		return nil, fmt.Errorf("a topic is required")
	}

	var compression kafka.Compression
	switch config.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "snappy":
		compression = kafka.Snappy
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.Topic,
		Balancer:               &kafka.Hash{},
		BatchSize:              config.BatchSize,
		BatchTimeout:           config.BatchTimeout,
		MaxAttempts:            config.MaxAttempts,
		WriteTimeout:           config.WriteTimeout,
		Async:                  config.Async,
		Compression:            compression,
		RequiredAcks:           kafka.RequiredAcks(config.RequiredAcks),
		AllowAutoTopicCreation: true,
	}

	return newProducer(writer, config.Topic, logger), nil
}

func newProducer(w messageWriter, topic string, logger ectologger.Logger) *Producer {
	return &Producer{writer: w, logger: logger, topic: topic, now: time.Now}
}

// Publish keys the message by VAL id so events for one document stay ordered.
// Request and trace identifiers are filled from ctx when unset.
func (p *Producer) Publish(ctx context.Context, event Event) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.Publish")
	defer span.End()

	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID = appctx.GetRequestID(ctx)
	}
	if event.UserID == "" {
		event.UserID = appctx.GetUserID(ctx)
	}
	if event.TraceID == "" {
		event.TraceID = tracing.GetTraceID(ctx)
		event.SpanID = tracing.GetSpanID(ctx)
	}

	data, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	headers := []kafka.Header{{Key: "event-type", Value: []byte(event.Type)}}
	if event.TraceID != "" {
		headers = append(headers, kafka.Header{
			Key:   "traceparent",
			Value: []byte(fmt.Sprintf("00-%s-%s-01", event.TraceID, event.SpanID)),
		})
	}

	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(strconv.Itoa(event.ValID)),
		Value:   data,
		Headers: headers,
		Time:    event.Timestamp,
	})
	if err != nil {
		metrics.RecordKafkaPublish(p.topic, "error", time.Since(start).Seconds())
		tracing.RecordError(ctx, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	metrics.RecordKafkaPublish(p.topic, "success", time.Since(start).Seconds())
	p.logger.WithContext(ctx).WithFields(map[string]any{
		"type":  event.Type,
		"valId": event.ValID,
	}).Debug("Published document event")
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Ping verifies a broker is reachable.
func Ping(ctx context.Context, brokers []string) error {
	if len(brokers) == 0 {
		return fmt.Errorf("no brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return err
	}
	return conn.Close()
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
