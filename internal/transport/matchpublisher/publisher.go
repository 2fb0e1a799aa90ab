// Package matchpublisher republishes engine output events onto Kafka. It
// implements engine.Sink so a Publisher can be registered directly as a
// Matcher observer via engine.NewClient.
package matchpublisher

import (
	"context"
	"encoding/json"

	"github.com/darcyg/PyXchange/internal/engine"
	"github.com/darcyg/PyXchange/pkg/config"
	"github.com/darcyg/PyXchange/pkg/errors"
	"github.com/darcyg/PyXchange/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// wireEvent tags an outbound event with its kind so a downstream consumer
// (market data, order management) can dispatch on it without reflecting on
// the JSON shape.
type wireEvent struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// Publisher writes every event it receives to a single Kafka topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a Kafka writer bound to the given topic configuration.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{kafkaWriter: kafkaWriter, logger: log}
}

// Send implements engine.Sink. It tags and writes event to Kafka; failures
// are returned to the caller, which — per the engine's sink contract —
// logs and swallows them rather than unwinding into book state.
func (p *Publisher) Send(event any) error {
	body, err := json.Marshal(wireEvent{Kind: kindOf(event), Payload: event})
	if err != nil {
		return errors.TracerFromError(err)
	}

	if err := p.kafkaWriter.WriteMessages(context.Background(), kafka.Message{Value: body}); err != nil {
		if p.logger != nil {
			p.logger.Error(errors.TracerFromError(err), logger.Field{Key: "operation", Value: "WriteMessages"})
		}
		return errors.TracerFromError(err)
	}
	return nil
}

// Close flushes and closes the underlying Kafka connection.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}

func kindOf(event any) string {
	switch event.(type) {
	case engine.Trade:
		return "trade"
	case engine.ExecutionReport:
		return "executionReport"
	case engine.DepthUpdate:
		return "depthUpdate"
	case engine.ErrorEvent:
		return "error"
	default:
		return "unknown"
	}
}
