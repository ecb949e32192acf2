package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes city snapshots to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the snapshot topic. Messages are keyed
// by city so all snapshots for a city land on one partition.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one message per snapshot in a single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, snapshots []domain.CitySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snapshots))
	for i := range snapshots {
		msg, err := serializeToMessage(snapshots[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d snapshots to %s: %w", len(msgs), w.writer.Topic, err)
	}
	w.logger.Debug("snapshots written", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a CitySnapshot into a Kafka message.
func serializeToMessage(s domain.CitySnapshot) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot for %s: %w", s.City, err)
	}
	return kafkago.Message{
		Key:   []byte(s.City),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk", Value: []byte(s.Current.Risk)},
			{Key: "generated_at", Value: []byte(s.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
