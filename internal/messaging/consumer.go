package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/events"
)

type EventHandler func(event events.ShipmentEvent) error

// Consumer binds a durable queue to shipment event routing keys and
// feeds deliveries to a handler. Handler failures nack without requeue
// so a poison message cannot wedge the queue.
type Consumer struct {
	client    *RabbitMQClient
	queueName string
	log       *zap.Logger
}

func NewConsumer(client *RabbitMQClient, queueName string, log *zap.Logger) *Consumer {
	return &Consumer{client: client, queueName: queueName, log: log}
}

func (c *Consumer) ConsumeEvents(routingKeys []string, handler EventHandler) error {
	if !c.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	channel := c.client.Channel()

	queue, err := channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("queue declare error: %w", err)
	}

	for _, routingKey := range routingKeys {
		if err := channel.QueueBind(queue.Name, routingKey, c.client.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("queue bind error (%s): %w", routingKey, err)
		}
		c.log.Info("queue bound", zap.String("queue", queue.Name), zap.String("routing_key", routingKey))
	}

	messages, err := channel.Consume(
		queue.Name,  // queue
		c.queueName, // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("consume start error: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				c.handleMessage(msg, handler)
			case <-c.client.ctx.Done():
				c.log.Info("consumer stopped", zap.String("queue", c.queueName))
				return
			}
		}
	}()

	return nil
}

func (c *Consumer) handleMessage(msg amqp.Delivery, handler EventHandler) {
	var event events.ShipmentEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.Error("event deserialize error", zap.Error(err))
		msg.Nack(false, false)
		return
	}

	if err := handler(event); err != nil {
		c.log.Error("event handler error",
			zap.String("event_type", string(event.Type)),
			zap.String("shipping_id", event.ShippingID),
			zap.Error(err))
		msg.Nack(false, false)
		return
	}

	msg.Ack(false)
}
