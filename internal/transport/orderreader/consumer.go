// Package orderreader consumes decoded order messages from Kafka and feeds
// them to the matching core. It is the host side of the sink contract the
// engine describes: everything here — brokers, topics, offsets, wire JSON —
// is outside the core's concern.
package orderreader

import (
	"context"
	"encoding/json"

	"github.com/darcyg/PyXchange/internal/engine"
	"github.com/darcyg/PyXchange/pkg/config"
	"github.com/darcyg/PyXchange/pkg/ctxkeys"
	"github.com/darcyg/PyXchange/pkg/errors"
	"github.com/darcyg/PyXchange/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// wireRequest is the JSON envelope carried on the orders topic. TraderID
// identifies the submitting trader, which the engine's Request type itself
// does not carry since Dispatch takes it as a separate argument (the trader
// is a property of the connection/session, not of the message).
type wireRequest struct {
	TraderID string             `json:"traderId"`
	Message  engine.MessageType `json:"message"`
	Side     string             `json:"side,omitempty"`
	OrderID  int64              `json:"orderId,omitempty"`
	Price    int64              `json:"price,omitempty"`
	Quantity int64              `json:"quantity,omitempty"`
}

// Reader consumes decoded order messages from a single Kafka topic and
// dispatches each one to a Matcher.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a Kafka reader bound to the given topic configuration.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{kafkaReader: kafkaReader, logger: log}
}

// Run reads and dispatches messages until ctx is canceled or a read error
// occurs. A single malformed message is logged and skipped rather than
// aborting the loop — decode failures are a per-message condition (§7), not
// an engine-fatal one.
func (r *Reader) Run(ctx context.Context, matcher *engine.Matcher) error {
	for {
		msg, err := r.kafkaReader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.logger.Error(errors.TracerFromError(err), logger.Field{Key: "operation", Value: "ReadMessage"})
			return err
		}

		msgCtx := ctxkeys.WithCorrelationID(ctx, "")

		var req wireRequest
		if err := json.Unmarshal(msg.Value, &req); err != nil {
			r.logger.WarnContext(msgCtx, "dropping malformed order message",
				logger.Field{Key: "offset", Value: msg.Offset},
				logger.Field{Key: "error", Value: err.Error()},
			)
			continue
		}

		r.logger.InfoContext(msgCtx, "dispatching order message",
			logger.Field{Key: "traderId", Value: req.TraderID},
			logger.Field{Key: "message", Value: req.Message},
			logger.Field{Key: "offset", Value: msg.Offset},
		)

		matcher.Dispatch(req.TraderID, engine.Request{
			Type:     req.Message,
			Side:     req.Side,
			OrderID:  req.OrderID,
			Price:    req.Price,
			Quantity: req.Quantity,
		})
	}
}

// Close releases the underlying Kafka connection.
func (r *Reader) Close() error {
	return r.kafkaReader.Close()
}
