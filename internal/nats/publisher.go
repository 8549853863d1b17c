package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"seat-service/internal/models"
)

// SeatEvent represents a lifecycle event emitted after a committed mutation
type SeatEvent struct {
	Action string                  `json:"action"` // usage action, e.g. "DELIVER"
	Entry  *models.AccountUsageLog `json:"entry"`
}

// Publisher handles publishing seat lifecycle events to NATS
type Publisher struct {
	client *Client
	logger *logrus.Logger
}

// NewPublisher creates a new seat event publisher
func NewPublisher(client *Client, logger *logrus.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// PublishUsageEvent publishes a committed usage-log entry as a seat event
func (p *Publisher) PublishUsageEvent(ctx context.Context, entry *models.AccountUsageLog) error {
	if p.client == nil || !p.client.IsConnected() {
		p.logger.Warn("NATS not connected, skipping event publish")
		return nil
	}

	event := SeatEvent{
		Action: string(entry.Action),
		Entry:  entry,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal seat event: %w", err)
	}

	// Subject: seat.account.<action>, e.g. seat.account.deliver
	subject := fmt.Sprintf("seat.account.%s", strings.ToLower(string(entry.Action)))

	// Use JetStream for guaranteed delivery
	ack, err := p.client.JetStream().Publish(subject, data, nats.Context(ctx))
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"account_id": entry.AccountID,
			"action":     entry.Action,
			"subject":    subject,
		}).WithError(err).Error("Failed to publish seat event")
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"account_id": entry.AccountID,
		"action":     entry.Action,
		"sequence":   ack.Sequence,
		"stream":     ack.Stream,
	}).Debug("Published seat event")

	return nil
}
