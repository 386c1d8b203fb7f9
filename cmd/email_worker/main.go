package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth-service/config"
	"github.com/oksasatya/go-ddd-auth-service/pkg/helpers"
	"github.com/oksasatya/go-ddd-auth-service/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	q, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer q.Close()

	msgs, err := q.Consume("", 16)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, logger, mg, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle acks delivered jobs, drops malformed ones, and requeues send failures.
func handle(ctx context.Context, logger *logrus.Logger, s mailer.Sender, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		helpers.LogError(logger, "bad message", err, nil)
		_ = msg.Nack(false, false)
		return
	}
	fields := logrus.Fields{"template": job.Template}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	err := mailer.Deliver(c, s, job)
	switch {
	case err == nil:
		helpers.LogInfo(logger, "email sent", fields)
		_ = msg.Ack(false)
	case errors.Is(err, mailer.ErrJobNoRecipient), errors.Is(err, mailer.ErrJobNoContent):
		helpers.LogError(logger, "invalid email job", err, fields)
		_ = msg.Nack(false, false)
	default:
		helpers.LogError(logger, "send failed", err, fields)
		_ = msg.Nack(false, !msg.Redelivered)
	}
}
