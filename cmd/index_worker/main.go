package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/config"
	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/search"
	"github.com/oksasatya/go-user-accounts/pkg/events"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
)

const consumerTag = "index-worker"

type profileIndexer interface {
	IndexUser(ctx context.Context, p entity.UserProfile) error
}

type outcome int

const (
	ack     outcome = iota
	requeue         // transient failure, try again later
	drop            // undecodable or unknown message
)

// process decodes one queue message and indexes the user it carries.
func process(ctx context.Context, idx profileIndexer, body []byte, logger *logrus.Logger) outcome {
	var ev events.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		logger.WithError(err).Warn("bad message")
		return drop
	}
	if ev.Type != events.UserCreated || ev.User.ID == 0 {
		logger.WithField("type", ev.Type).Warn("unsupported event")
		return drop
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := idx.IndexUser(c, ev.User); err != nil {
		logger.WithError(err).WithField("user_id", ev.User.ID).Error("index failed")
		return requeue
	}
	logger.WithField("user_id", ev.User.ID).Debug("user indexed")
	return ack
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-index-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQUserEventsQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		logger.Fatal("Elasticsearch not configured")
	}

	es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Fatal("elasticsearch client")
	}
	idx := search.NewIndexer(es, cfg.ESUsersIndex)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Fatal("amqp channel")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQUserEventsQueue); err != nil {
		logger.WithError(err).Fatal("queue declare")
	}

	msgs, err := ch.Consume(cfg.RabbitMQUserEventsQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			switch process(ctx, idx, msg.Body, logger) {
			case ack:
				_ = msg.Ack(false)
			case requeue:
				_ = msg.Nack(false, true)
			case drop:
				_ = msg.Nack(false, false)
			}
		}
	}()

	logger.Infof("index worker listening on queue=%s", cfg.RabbitMQUserEventsQueue)
	select {
	case <-ctx.Done():
	case <-done:
		logger.Warn("delivery channel closed")
	}
	logger.Info("shutting down...")
	_ = ch.Cancel(consumerTag, false)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
