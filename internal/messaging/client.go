package messaging

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/config"
)

const (
	connectRetries = 3
	retryDelay     = 5 * time.Second
)

// RabbitMQClient holds one connection and channel against the shipment
// events topic exchange.
type RabbitMQClient struct {
	cfg        config.RabbitMQConfig
	log        *zap.Logger
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewRabbitMQClient(cfg config.RabbitMQConfig, log *zap.Logger) *RabbitMQClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &RabbitMQClient{
		cfg:    cfg,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (r *RabbitMQClient) connectionURL() string {
	vhost := r.cfg.VHost
	if vhost != "/" && !strings.HasPrefix(vhost, "/") {
		vhost = "/" + vhost
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%d%s",
		r.cfg.Username, r.cfg.Password, r.cfg.Host, r.cfg.Port, vhost)
}

// Connect dials the broker with bounded retries and declares the topic
// exchange.
func (r *RabbitMQClient) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	for i := 0; i < connectRetries; i++ {
		r.connection, err = amqp.Dial(r.connectionURL())
		if err != nil {
			r.log.Warn("rabbitmq connection failed",
				zap.Int("attempt", i+1), zap.Int("max", connectRetries), zap.Error(err))
			if i < connectRetries-1 {
				time.Sleep(retryDelay)
				continue
			}
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}

		r.channel, err = r.connection.Channel()
		if err != nil {
			r.connection.Close()
			return fmt.Errorf("failed to open RabbitMQ channel: %w", err)
		}

		err = r.channel.ExchangeDeclare(
			r.cfg.Exchange, // name
			"topic",        // type
			true,           // durable
			false,          // auto-deleted
			false,          // internal
			false,          // no-wait
			nil,            // arguments
		)
		if err != nil {
			r.channel.Close()
			r.connection.Close()
			return fmt.Errorf("failed to declare exchange: %w", err)
		}

		r.log.Info("connected to RabbitMQ",
			zap.String("host", r.cfg.Host), zap.String("exchange", r.cfg.Exchange))
		return nil
	}
	return err
}

func (r *RabbitMQClient) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connection != nil && !r.connection.IsClosed()
}

func (r *RabbitMQClient) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

func (r *RabbitMQClient) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancel()
	if r.channel != nil {
		r.channel.Close()
	}
	if r.connection != nil {
		r.connection.Close()
	}
}
