package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jobdeck/jobboard/internal/config"
	"github.com/jobdeck/jobboard/internal/logging"
	"github.com/jobdeck/jobboard/internal/mail"
)

// mailworker drains the email_events topic and delivers over SMTP. Delivery
// failures are logged and the offset committed anyway; the request path has
// already answered the client.
func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL).With("component", "mailworker")

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     configuration.MAIL_HOST,
		Port:     configuration.MAIL_PORT,
		Username: configuration.MAIL_USERNAME,
		Password: configuration.MAIL_PASSWORD,
		From:     configuration.MAIL_FROM,
	})
	if err != nil {
		log.Fatalf("smtp config error: %v", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           []string{configuration.KAFKA_ADDRESS},
		GroupID:           "mailworker",
		Topic:             mail.Topic,
		MinBytes:          1e3,
		MaxBytes:          10e6,
		SessionTimeout:    10 * time.Second,
		HeartbeatInterval: 3 * time.Second,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("mailworker started", "topic", mail.Topic)

	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				break
			}
			logger.Error("read message failed", "error", err)
			time.Sleep(time.Second)
			continue
		}

		var msg mail.Message
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			logger.Error("malformed email event", "error", err)
			continue
		}

		if err := sender.Send(msg); err != nil {
			logger.Error("email delivery failed", "recipients", msg.Recipients, "error", err)
			continue
		}
		logger.Info("email delivered", "recipients", msg.Recipients, "subject", msg.Subject)
	}

	if err := reader.Close(); err != nil {
		logger.Error("reader close failed", "error", err)
	}
	logger.Info("mailworker stopped")
}
