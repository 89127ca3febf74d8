package persistence

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/lenslink/moderation-service/internal/config"
)

// RabbitMQ publishes moderation events to a queue for downstream consumers
// such as the mailer.
type RabbitMQ struct {
	mu           sync.Mutex
	conn         *amqp.Connection
	channel      *amqp.Channel
	queueDurable bool
	declared     map[string]bool
}

// NewRabbitMQ dials the broker. It returns nil without error when no URL is configured.
func NewRabbitMQ(cfg config.RabbitMQConfig, logger *zap.Logger) (*RabbitMQ, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		logger.Info("RABBITMQ_URL not provided; event forwarding disabled")
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info("connected to rabbitmq", zap.String("queue", cfg.Queue))
	return &RabbitMQ{
		conn:         conn,
		channel:      ch,
		queueDurable: cfg.QueueDurable,
		declared:     map[string]bool{},
	}, nil
}

// Publish sends a JSON message to the named queue.
func (r *RabbitMQ) Publish(ctx context.Context, queue string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(queue) == "" {
		return "", errors.New("rabbitmq queue is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.declared[queue] {
		if _, err := r.channel.QueueDeclare(queue, r.queueDurable, false, false, false, nil); err != nil {
			return "", err
		}
		r.declared[queue] = true
	}

	headers := amqp.Table{}
	for key, value := range attrs {
		headers[key] = value
	}

	messageID := newMessageID()
	err := r.channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   messageID,
		Headers:     headers,
		Body:        data,
	})
	if err != nil {
		return "", err
	}
	return messageID, nil
}

// Close closes channel and connection.
func (r *RabbitMQ) Close() {
	if r == nil {
		return
	}
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

func newMessageID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "msg-unknown"
	}
	return hex.EncodeToString(buf)
}
