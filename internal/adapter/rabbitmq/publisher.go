// Package rabbitmq publishes city snapshots to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/couchcryptid/rain-risk-service/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const contentTypeJSON = "application/json"

// channel is the subset of *amqp.Channel used by Publisher.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publishes one persistent message per snapshot, routed by
// "city.<slug>". It implements pipeline.Publisher.
type Publisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	logger   *slog.Logger
}

// NewPublisher dials url and declares a durable topic exchange.
func NewPublisher(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	logger.Info("rabbitmq exchange declared", "exchange", exchange)

	return &Publisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

// Publish sends each snapshot in order and stops at the first failure.
func (p *Publisher) Publish(ctx context.Context, snapshots []domain.CitySnapshot) error {
	for i := range snapshots {
		msg, err := toPublishing(snapshots[i])
		if err != nil {
			return err
		}
		key := routingKey(snapshots[i].City)
		if err := p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
			return fmt.Errorf("publish %s to %s: %w", key, p.exchange, err)
		}
	}
	p.logger.Debug("snapshots published", "exchange", p.exchange, "count", len(snapshots))
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	chErr := p.ch.Close()
	if p.conn == nil {
		return chErr
	}
	if err := p.conn.Close(); err != nil {
		return err
	}
	return chErr
}

func toPublishing(s domain.CitySnapshot) (amqp.Publishing, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("serialize snapshot for %s: %w", s.City, err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  contentTypeJSON,
		Timestamp:    s.GeneratedAt,
		Type:         "rain_risk.city_snapshot",
		Headers: amqp.Table{
			"risk":         string(s.Current.Risk),
			"generated_at": s.GeneratedAt.Format(time.RFC3339),
		},
		Body: body,
	}, nil
}

// routingKey lowercases the city and replaces every run of non-alphanumerics
// with a single '-', so dots never split the topic word.
func routingKey(city string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(city)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return "city." + strings.TrimSuffix(b.String(), "-")
}
