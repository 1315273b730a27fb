package realtime

import (
	"encoding/json"
	"fmt"

	"cuentos-server/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Consumer reads change events from the queue and fans them out to the
// dashboards through the hub.
type Consumer struct {
	conn        *amqp.Connection
	hub         *Hub
	queueName   string
	stopChannel chan struct{}
}

// NewConsumer creates a consumer for the change-event queue.
func NewConsumer(conn *amqp.Connection, hub *Hub, queueName string) (*Consumer, error) {
	return &Consumer{
		conn:        conn,
		hub:         hub,
		queueName:   queueName,
		stopChannel: make(chan struct{}),
	}, nil
}

// StartConsuming listens on the change-event queue. Blocking; run it in a
// goroutine.
func (c *Consumer) StartConsuming() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	defer ch.Close()

	// Parameters must match the publisher's declaration (durable=true).
	q, err := ch.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", c.queueName, err)
	}

	err = ch.Qos(1, 0, false)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"dashboard-feed-consumer", // consumer tag
		false,                     // auto-ack
		false,                     // exclusive
		false,                     // no-local
		false,                     // no-wait
		nil,                       // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Info().Str("queue", q.Name).Msg("Change-event consumer started")

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				log.Info().Msg("RabbitMQ message channel closed")
				return nil
			}

			// Validate the payload shape before fanning it out. A malformed
			// event is dropped, never redelivered to a dashboard.
			var event models.ChangeEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Error().Err(err).Msg("Failed to decode change event, discarding")
				_ = d.Nack(false, false)
				continue
			}

			c.hub.Broadcast(d.Body)
			_ = d.Ack(false)
			log.Debug().
				Str("requestID", event.RequestID).
				Str("eventType", string(event.EventType)).
				Msg("Change event broadcast to dashboards")

		case <-c.stopChannel:
			log.Info().Msg("Change-event consumer stopping")
			return nil
		}
	}
}

// Stop signals the consumer to exit.
func (c *Consumer) Stop() {
	close(c.stopChannel)
}
