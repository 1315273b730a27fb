package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cuentos-server/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChangePublisher publishes row-level change events on the request store so
// connected staff dashboards converge without polling.
type ChangePublisher interface {
	PublishChange(ctx context.Context, event models.ChangeEvent) error
}

// rabbitMQChangePublisher implements ChangePublisher for RabbitMQ.
type rabbitMQChangePublisher struct {
	channel   *amqp.Channel
	queueName string
}

// NewRabbitMQChangePublisher opens a channel and declares the durable change
// event queue. Queue parameters must match the realtime consumer's.
func NewRabbitMQChangePublisher(conn *amqp.Connection, queueName string) (ChangePublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("change publisher: failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Printf("ChangePublisher ERROR: failed to declare queue '%s': %v", queueName, err)
		ch.Close()
		return nil, fmt.Errorf("change publisher: failed to declare queue '%s': %w", queueName, err)
	}
	log.Printf("ChangePublisher: queue '%s' declared/found.", queueName)

	return &rabbitMQChangePublisher{channel: ch, queueName: queueName}, nil
}

// PublishChange serializes the event and publishes it as a persistent message.
func (p *rabbitMQChangePublisher) PublishChange(ctx context.Context, event models.ChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("change publisher: failed to marshal event for %s: %w", event.RequestID, err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(publishCtx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("change publisher: failed to publish %s event for %s: %w",
			event.EventType, event.RequestID, err)
	}
	return nil
}
