package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lshigami/examhall/config"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	RoutingSessionCompleted = "session.completed"
	RoutingSessionDeleted   = "session.deleted"
)

type SessionCompletedEvent struct {
	SessionID       uint      `json:"sessionId"`
	TestID          uint      `json:"testId"`
	StudentEmail    string    `json:"studentEmail"`
	ScorePercentage float64   `json:"scorePercentage"`
	CorrectAnswers  int       `json:"correctAnswers"`
	TotalQuestions  int       `json:"totalQuestions"`
	Passed          bool      `json:"passed"`
	CompletedAt     time.Time `json:"completedAt"`
}

type SessionDeletedEvent struct {
	SessionID uint      `json:"sessionId"`
	DeletedAt time.Time `json:"deletedAt"`
}

type Publisher interface {
	PublishSessionCompleted(ctx context.Context, evt SessionCompletedEvent) error
	PublishSessionDeleted(ctx context.Context, evt SessionDeletedEvent) error
	Close() error
}

type EventPublisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	enabled      bool
}

// NewEventPublisher connects to RabbitMQ and declares the topic exchange.
// An empty URL yields a disabled publisher that drops every event.
func NewEventPublisher(cfg *config.Config) (*EventPublisher, error) {
	if cfg.AMQP.URL == "" {
		log.Warn().Msg("AMQP_URL is empty, event publishing is disabled")
		return &EventPublisher{enabled: false}, nil
	}

	conn, err := amqp091.Dial(cfg.AMQP.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.AMQP.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("Event publisher connected")
	return &EventPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: cfg.AMQP.Exchange,
		enabled:      true,
	}, nil
}

func (p *EventPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	if !p.enabled {
		log.Debug().Str("routing_key", routingKey).Msg("Event publishing disabled, skipping event")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		p.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", routingKey, err)
	}

	log.Debug().Str("routing_key", routingKey).Msg("Published event")
	return nil
}

func (p *EventPublisher) PublishSessionCompleted(ctx context.Context, evt SessionCompletedEvent) error {
	return p.publish(ctx, RoutingSessionCompleted, evt)
}

func (p *EventPublisher) PublishSessionDeleted(ctx context.Context, evt SessionDeletedEvent) error {
	return p.publish(ctx, RoutingSessionDeleted, evt)
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close AMQP channel")
	}
	return p.conn.Close()
}
