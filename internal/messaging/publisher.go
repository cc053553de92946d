package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/events"
)

// Publisher pushes shipment lifecycle events onto the topic exchange,
// using the event type as the routing key, e.g.
// "shipment.status_changed".
type Publisher struct {
	client *RabbitMQClient
	log    *zap.Logger
}

func NewPublisher(client *RabbitMQClient, log *zap.Logger) *Publisher {
	return &Publisher{client: client, log: log}
}

func (p *Publisher) PublishShipmentEvent(event events.ShipmentEvent) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event serialization error: %w", err)
	}

	err = p.client.Channel().Publish(
		p.client.cfg.Exchange,
		string(event.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.OccurredAt,
			Headers: amqp.Table{
				"shipping_id": event.ShippingID,
				"event_type":  string(event.Type),
				"status":      string(event.Status),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("event publish error: %w", err)
	}

	p.log.Info("shipment event published",
		zap.String("event_type", string(event.Type)),
		zap.String("shipping_id", event.ShippingID))
	return nil
}
