package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/booking-api/config"
	"github.com/oksasatya/booking-api/pkg/helpers"
	"github.com/oksasatya/booking-api/pkg/mailer"
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

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer consumer.Close()
	msgs, err := consumer.Deliveries(cfg.AppName + "-email-worker")
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender).WithAPIBase(cfg.MailgunAPIBase)
	defaults := cfg.EmailDefaults()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(logger, mg, defaults, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle acks delivered mail, drops malformed jobs and requeues send failures.
func handle(logger *logrus.Logger, s mailer.Sender, defaults map[string]string, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}
	helpers.EnsureRecipientAndEmail(&job)
	helpers.ApplyDefaults(&job, defaults)

	if _, _, _, err := mailer.Compose(job); err != nil {
		logger.WithError(err).WithField("template", job.Template).Warn("render failed; dropping job")
		_ = msg.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := mailer.Deliver(ctx, s, job); err != nil {
		logger.WithError(err).WithField("to", job.To).Warn("send failed; requeueing")
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
}
